// Package factory opens a blob.Store by driver name.
package factory

import (
	"context"

	"github.com/matzehuels/heritage/pkg/blob"
	"github.com/matzehuels/heritage/pkg/blob/fs"
	"github.com/matzehuels/heritage/pkg/blob/memory"
	"github.com/matzehuels/heritage/pkg/blob/s3"
	"github.com/matzehuels/heritage/pkg/errors"
)

// Config selects and configures a driver. An empty Driver means fs.
type Config struct {
	Driver blob.Driver
	Dir    string
	S3     s3.Config
}

// Open returns the store named by cfg.Driver.
func Open(ctx context.Context, cfg Config) (blob.Store, error) {
	switch cfg.Driver {
	case "", blob.DriverFilesystem:
		return fs.New(cfg.Dir)
	case blob.DriverMemory:
		return memory.New(), nil
	case blob.DriverS3:
		return s3.New(ctx, cfg.S3)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown blob driver %q", cfg.Driver)
	}
}
