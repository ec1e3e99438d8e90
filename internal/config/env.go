package config

import (
	"strconv"
	"time"

	"github.com/matzehuels/heritage/pkg/errors"
)

// EnvPrefix starts every recognised environment variable.
const EnvPrefix = "HERITAGE_"

type envVar struct {
	name  string
	apply func(c *Config, v string) error
}

var envVars = []envVar{
	{"SOURCE", func(c *Config, v string) error { c.Source.URI = v; return nil }},
	{"ADAPTER", func(c *Config, v string) error { c.Capture.Adapter = v; return nil }},
	{"CAPTURE_TIMEOUT", func(c *Config, v string) error { return parseDuration(v, &c.Capture.Timeout) }},
	{"DEVICE_SCALE", func(c *Config, v string) error { return parseFloat(v, &c.Capture.DeviceScale) }},
	{"CHROME_URL", func(c *Config, v string) error { c.Capture.ChromeURL = v; return nil }},
	{"MARGIN_MM", func(c *Config, v string) error { return parseFloat(v, &c.Pagination.MarginMm) }},
	{"MAX_PAGES", func(c *Config, v string) error { return parseInt(v, &c.Pagination.MaxPages) }},
	{"CACHE_DRIVER", func(c *Config, v string) error { c.Cache.Driver = v; return nil }},
	{"CACHE_DIR", func(c *Config, v string) error { c.Cache.Dir = v; return nil }},
	{"REDIS_ADDR", func(c *Config, v string) error { c.Cache.RedisAddr = v; return nil }},
	{"REDIS_PASSWORD", func(c *Config, v string) error { c.Cache.RedisPassword = v; return nil }},
	{"BLOB_DRIVER", func(c *Config, v string) error { c.Blob.Driver = v; return nil }},
	{"BLOB_DIR", func(c *Config, v string) error { c.Blob.Dir = v; return nil }},
	{"S3_BUCKET", func(c *Config, v string) error { c.Blob.Bucket = v; return nil }},
	{"S3_REGION", func(c *Config, v string) error { c.Blob.Region = v; return nil }},
	{"S3_ENDPOINT", func(c *Config, v string) error { c.Blob.Endpoint = v; return nil }},
	{"ADDR", func(c *Config, v string) error { c.Server.Addr = v; return nil }},
}

// ApplyEnv overrides fields from HERITAGE_* variables found by lookup.
// Empty values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, ev := range envVars {
		v, ok := lookup(EnvPrefix + ev.name)
		if !ok || v == "" {
			continue
		}
		if err := ev.apply(c, v); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s%s", EnvPrefix, ev.name)
		}
	}
	return nil
}

func parseDuration(v string, dst *time.Duration) error {
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func parseFloat(v string, dst *float64) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return err
	}
	*dst = f
	return nil
}

func parseInt(v string, dst *int) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}
