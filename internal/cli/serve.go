package cli

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/heritage/internal/api"
	"github.com/matzehuels/heritage/pkg/cache"
	"github.com/matzehuels/heritage/pkg/observability/prom"
	"github.com/matzehuels/heritage/pkg/pipeline"
)

const shutdownTimeout = 10 * time.Second

func (c *CLI) serveCommand() *cobra.Command {
	var (
		records string
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve trees, reports and exports over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			rs, err := c.loadRecords(ctx, records)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			hooks := prom.New(reg).All()

			if records == "" {
				records = c.Config.Source.URI
			}
			keyer := cache.NewScopedKeyer(nil, "src:"+cache.Hash([]byte(records))[:12]+":")
			runner, err := c.newRunner(ctx, noCache, false,
				pipeline.WithHooks(hooks), pipeline.WithKeyer(keyer))
			if err != nil {
				return err
			}
			defer runner.Close()

			handler := api.NewServer(runner, rs, c.Logger,
				api.WithHooks(hooks),
				api.WithMetrics(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
				api.WithExportDefaults(c.Config.ExportOptions(0)))

			return c.listen(ctx, &http.Server{
				Addr:              addr,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			})
		},
	}

	cmd.Flags().StringVarP(&records, "records", "r", "", "record source: file path or database URI")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

// listen runs srv until ctx ends, then shuts it down gracefully.
func (c *CLI) listen(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	c.Logger.Info("listening", "addr", srv.Addr)

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}
