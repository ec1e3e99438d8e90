// Package config loads heritage settings from a TOML file and HERITAGE_*
// environment variables.
//
// Precedence, lowest first: built-in defaults, the config file, the
// environment, command-line flags (applied by the caller).
package config

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/heritage/pkg/blob"
	"github.com/matzehuels/heritage/pkg/blob/factory"
	"github.com/matzehuels/heritage/pkg/blob/s3"
	"github.com/matzehuels/heritage/pkg/cache"
	"github.com/matzehuels/heritage/pkg/capture"
	"github.com/matzehuels/heritage/pkg/errors"
	"github.com/matzehuels/heritage/pkg/paginate"
	"github.com/matzehuels/heritage/pkg/pipeline"
)

const appName = "heritage"

// Cache drivers.
const (
	CacheFile   = "file"
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config is the full settings tree.
type Config struct {
	Pagination Pagination `toml:"pagination"`
	Capture    Capture    `toml:"capture"`
	Source     Source     `toml:"source"`
	Cache      Cache      `toml:"cache"`
	Blob       Blob       `toml:"blob"`
	Server     Server     `toml:"server"`
}

// Pagination mirrors paginate.Policy.
type Pagination struct {
	MarginMm      float64 `toml:"margin_mm"`
	MaxPages      int     `toml:"max_pages"`
	A3MinWidthPx  int     `toml:"a3_min_width_px"`
	A3MinHeightPx int     `toml:"a3_min_height_px"`
}

// Capture selects and tunes the capture adapter.
type Capture struct {
	Adapter     string        `toml:"adapter"`
	Timeout     time.Duration `toml:"timeout"`
	DeviceScale float64       `toml:"device_scale"`
	RowHeight   float64       `toml:"row_height"`
	Background  string        `toml:"background"`
	Detailed    bool          `toml:"detailed"`
	ChromeURL   string        `toml:"chrome_url"`
}

// Source names the record source URI.
type Source struct {
	URI string `toml:"uri"`
}

// Cache selects the cache backend.
type Cache struct {
	Driver        string `toml:"driver"`
	Dir           string `toml:"dir"`
	MemoryEntries int    `toml:"memory_entries"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
}

// Blob selects the artifact store.
type Blob struct {
	Driver    string `toml:"driver"`
	Dir       string `toml:"dir"`
	Bucket    string `toml:"bucket"`
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	PathStyle bool   `toml:"path_style"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in settings.
func Default() Config {
	p := paginate.DefaultPolicy()
	return Config{
		Pagination: Pagination{
			MarginMm:      p.MarginMm,
			MaxPages:      p.MaxPages,
			A3MinWidthPx:  p.A3MinWidthPx,
			A3MinHeightPx: p.A3MinHeightPx,
		},
		Capture: Capture{
			Adapter:     pipeline.DefaultAdapter,
			Timeout:     pipeline.DefaultTimeout,
			DeviceScale: capture.DefaultDeviceScale,
			Background:  "#ffffff",
		},
		Cache: Cache{
			Driver:        CacheFile,
			Dir:           DefaultCacheDir(),
			MemoryEntries: cache.DefaultMemoryEntries,
			RedisAddr:     "localhost:6379",
			RedisPrefix:   appName + ":",
		},
		Blob: Blob{
			Driver: string(blob.DriverFilesystem),
			Dir:    "./artifacts",
			Region: "us-east-1",
		},
		Server: Server{Addr: ":8080"},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/heritage/config.toml.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// DefaultCacheDir is $XDG_CACHE_HOME/heritage.
func DefaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".cache", appName)
}

// Load reads path over the defaults, then applies the environment.
// An empty path means DefaultPath, which may be absent.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		_, err := toml.DecodeFile(path, &cfg)
		switch {
		case err == nil:
		case !explicit && stderrors.Is(err, fs.ErrNotExist):
		default:
			return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks ranges and driver names.
func (c Config) Validate() error {
	if err := c.Policy().Validate(); err != nil {
		return err
	}
	if err := pipeline.ValidateAdapter(c.Capture.Adapter); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "capture.adapter")
	}
	if c.Capture.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "capture.timeout must not be negative")
	}
	if c.Capture.DeviceScale < 0 || c.Capture.RowHeight < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "capture sizes must not be negative")
	}
	switch c.Cache.Driver {
	case CacheFile, CacheMemory, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache.driver %q", c.Cache.Driver)
	}
	switch blob.Driver(c.Blob.Driver) {
	case blob.DriverFilesystem, blob.DriverMemory:
	case blob.DriverS3:
		if c.Blob.Bucket == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "blob.bucket is required for the s3 driver")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown blob.driver %q", c.Blob.Driver)
	}
	return nil
}

// Policy returns the pagination policy.
func (c Config) Policy() paginate.Policy {
	p := paginate.DefaultPolicy()
	p.MarginMm = c.Pagination.MarginMm
	p.MaxPages = c.Pagination.MaxPages
	p.A3MinWidthPx = c.Pagination.A3MinWidthPx
	p.A3MinHeightPx = c.Pagination.A3MinHeightPx
	return p
}

// ExportOptions returns pipeline options for root with the configured
// capture and pagination settings.
func (c Config) ExportOptions(root int) pipeline.Options {
	return pipeline.Options{
		Root:        root,
		Adapter:     c.Capture.Adapter,
		DeviceScale: c.Capture.DeviceScale,
		Background:  c.Capture.Background,
		RowHeight:   c.Capture.RowHeight,
		Timeout:     c.Capture.Timeout,
		Policy:      c.Policy(),
	}
}

// AdapterConfig returns settings for the built-in capture adapters.
func (c Config) AdapterConfig() pipeline.AdapterConfig {
	return pipeline.AdapterConfig{
		RowHeight:  c.Capture.RowHeight,
		Detailed:   c.Capture.Detailed,
		ControlURL: c.Capture.ChromeURL,
	}
}

// OpenCache constructs the configured cache.
func (c Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Driver {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheMemory:
		return cache.NewMemoryCache(c.Cache.MemoryEntries)
	case CacheRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.Cache.RedisAddr,
			Password: c.Cache.RedisPassword,
			DB:       c.Cache.RedisDB,
			Prefix:   c.Cache.RedisPrefix,
		})
	default:
		return cache.NewFileCache(c.Cache.Dir)
	}
}

// BlobConfig returns the artifact store settings.
func (c Config) BlobConfig() factory.Config {
	return factory.Config{
		Driver: blob.Driver(c.Blob.Driver),
		Dir:    c.Blob.Dir,
		S3: s3.Config{
			Bucket:    c.Blob.Bucket,
			Region:    c.Blob.Region,
			Endpoint:  c.Blob.Endpoint,
			PathStyle: c.Blob.PathStyle,
		},
	}
}
