// Package file loads records from a JSON or YAML file.
package file

import (
	"context"

	"github.com/matzehuels/heritage/pkg/family"
	heritageio "github.com/matzehuels/heritage/pkg/io"
)

// Source reads Path on every Load.
type Source struct {
	Path string
}

// New returns a source for path.
func New(path string) *Source { return &Source{Path: path} }

func (s *Source) Load(ctx context.Context) (*family.RecordSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return heritageio.ImportRecords(s.Path)
}

func (s *Source) Close() error { return nil }
