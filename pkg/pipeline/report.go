package pipeline

import (
	"bytes"
	"context"

	"github.com/matzehuels/heritage/pkg/cache"
	"github.com/matzehuels/heritage/pkg/family"
	"github.com/matzehuels/heritage/pkg/genealogy"
	"github.com/matzehuels/heritage/pkg/report"
)

// Report kinds used in cache keys.
const (
	ReportText = "text"
	ReportDOCX = "docx"
)

// Report builds the text report for root. Text reports are always rebuilt.
func (r *Runner) Report(ctx context.Context, records *family.RecordSet, root int, opts ...report.Option) (string, *genealogy.Tree, error) {
	tree, err := r.Build(ctx, records, root)
	if err != nil {
		return "", nil, err
	}
	return report.BuildTextReport(tree, opts...), tree, nil
}

// ReportDOCX builds the Word report for root. The document is cached by
// records hash and root, so its generation time is that of the cached copy.
func (r *Runner) ReportDOCX(ctx context.Context, records *family.RecordSet, root int, opts ...report.Option) ([]byte, error) {
	hash, err := RecordsHash(records)
	if err != nil {
		return nil, err
	}
	key := r.Keyer.ReportKey(hash, root, ReportDOCX)
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		r.Hooks.Cache.OnCacheHit(ctx, "report")
		return data, nil
	}
	r.Hooks.Cache.OnCacheMiss(ctx, "report")

	tree, err := r.Build(ctx, records, root)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := report.WriteDOCX(&buf, tree, opts...); err != nil {
		return nil, err
	}
	if err := r.Cache.Set(ctx, key, buf.Bytes(), cache.TTLReport); err == nil {
		r.Hooks.Cache.OnCacheSet(ctx, "report", buf.Len())
	}
	return buf.Bytes(), nil
}

// Profile builds the profile of one member, resolving the spouse record
// when present. With html set the result is an HTML page.
func (r *Runner) Profile(records *family.RecordSet, serNo int, html bool) ([]byte, error) {
	g := genealogy.New(records, genealogy.WithLogger(r.Logger))
	m, err := g.Member(serNo)
	if err != nil {
		return nil, err
	}
	var opts []report.Option
	if sp, ok := g.Spouse(serNo); ok {
		opts = append(opts, report.WithSpouse(&sp))
	}
	if html {
		return report.ProfileHTML(m, opts...)
	}
	return []byte(report.BuildMemberProfile(m, opts...)), nil
}
