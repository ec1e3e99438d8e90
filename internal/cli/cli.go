// Package cli implements the heritage command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/heritage/internal/config"
	"github.com/matzehuels/heritage/pkg/blob/factory"
	"github.com/matzehuels/heritage/pkg/buildinfo"
	"github.com/matzehuels/heritage/pkg/cache"
	"github.com/matzehuels/heritage/pkg/errors"
	"github.com/matzehuels/heritage/pkg/family"
	"github.com/matzehuels/heritage/pkg/pipeline"
	"github.com/matzehuels/heritage/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "heritage"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	out        io.Writer
}

// New creates a new CLI instance with a default logger and built-in config.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output (not logs).
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Heritage turns family records into browsable trees and printable documents",
		Long:         `Heritage reconstructs descendant trees from family member records and exports them as paginated PDF documents, text and Word reports, and member profiles.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.exportCommand())
	root.AddCommand(c.reportCommand())
	root.AddCommand(c.profileCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.rootsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. With publish set the
// configured blob store is attached.
func (c *CLI) newRunner(ctx context.Context, noCache, publish bool, opts ...pipeline.RunnerOption) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	opts = append([]pipeline.RunnerOption{pipeline.WithAdapterConfig(c.Config.AdapterConfig())}, opts...)
	if publish {
		store, err := factory.Open(ctx, c.Config.BlobConfig())
		if err != nil {
			ch.Close()
			return nil, err
		}
		opts = append(opts, pipeline.WithStore(store))
	}
	return pipeline.NewRunner(ch, nil, c.Logger, opts...), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	ch, err := c.Config.OpenCache(ctx)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "driver", c.Config.Cache.Driver, "err", err)
		return cache.NewNullCache(), nil
	}
	return ch, nil
}

// =============================================================================
// Records
// =============================================================================

// loadRecords reads the record set from uri, falling back to the configured
// source.
func (c *CLI) loadRecords(ctx context.Context, uri string) (*family.RecordSet, error) {
	if uri == "" {
		uri = c.Config.Source.URI
	}
	if uri == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no records given: pass --records or set [source] uri")
	}
	prog := newProgress(c.Logger)
	records, err := source.Load(ctx, uri)
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Loaded %d members", records.Len()))
	return records, nil
}

// =============================================================================
// Flag Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatPDF}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// parseIDs parses comma-separated member ids.
func parseIDs(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid member id %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}
