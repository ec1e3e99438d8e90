package pipeline

import (
	"bytes"
	"context"
	"sort"
	"strconv"

	"github.com/matzehuels/heritage/pkg/blob"
	"github.com/matzehuels/heritage/pkg/cache"
	"github.com/matzehuels/heritage/pkg/errors"
)

// Published maps a format to the stored object.
type Published map[string]blob.Info

// Publish uploads every artifact of res to the runner's store under a fresh
// key per format. Store failures other than an invalid key are retried with
// backoff, each attempt under a new key.
func (r *Runner) Publish(ctx context.Context, res *Result) (Published, error) {
	if r.Store == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no artifact store configured")
	}
	if res == nil || res.Tree == nil || res.Tree.Root == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nothing to publish")
	}
	root := res.Tree.Root.SerNo()

	formats := make([]string, 0, len(res.Artifacts))
	for f := range res.Artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	out := make(Published, len(formats))
	for _, format := range formats {
		data := res.Artifacts[format]
		var info blob.Info
		err := cache.RetryWithBackoff(ctx, func() error {
			var err error
			info, err = r.Store.Put(ctx, blob.ExportKey(root, format), bytes.NewReader(data), blob.PutOptions{
				ContentType: blob.ContentType(format),
				Metadata: map[string]string{
					"root":  strconv.Itoa(root),
					"pages": strconv.Itoa(res.Stats.PageCount),
				},
			})
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidPath) {
				return cache.Retryable(err)
			}
			return err
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "publish %s", format)
		}
		r.Logger.Info("published artifact", "format", format, "key", info.Key, "bytes", info.Size)
		out[format] = info
	}
	return out, nil
}
