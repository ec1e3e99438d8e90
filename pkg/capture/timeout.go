package capture

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/heritage/pkg/errors"
)

type timeoutAdapter struct {
	next    Adapter
	timeout time.Duration
}

// WithTimeout bounds every capture by d. A non-positive d disables the
// bound but still normalizes errors.
//
// The wrapped adapter runs in its own goroutine and receives a context that
// is cancelled at the deadline. An adapter that ignores its context keeps
// running until it returns on its own; its result is then discarded.
func WithTimeout(a Adapter, d time.Duration) Adapter {
	return &timeoutAdapter{next: a, timeout: d}
}

type result struct {
	raster Raster
	err    error
}

func (t *timeoutAdapter) Capture(ctx context.Context, v View, opts Options) (Raster, error) {
	cctx, cancel := ctx, context.CancelFunc(func() {})
	if t.timeout > 0 {
		cctx, cancel = context.WithTimeout(ctx, t.timeout)
	}
	defer cancel()

	done := make(chan result, 1)
	go func() {
		r, err := t.next.Capture(cctx, v, opts)
		done <- result{r, err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return Raster{}, t.classify(ctx, cctx, res.err)
		}
		return res.raster, nil
	case <-cctx.Done():
		return Raster{}, t.classify(ctx, cctx, cctx.Err())
	}
}

func (t *timeoutAdapter) classify(parent, cctx context.Context, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if cctx.Err() == context.DeadlineExceeded || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrCodeExportTimeout, err, "capture did not finish within %s", t.timeout)
	}
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeCapture, err, "capture failed")
}
