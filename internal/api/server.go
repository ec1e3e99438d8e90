// Package api serves trees, reports, profiles and paginated exports over
// HTTP.
package api

import (
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/heritage/pkg/family"
	"github.com/matzehuels/heritage/pkg/observability"
	"github.com/matzehuels/heritage/pkg/pipeline"
)

// Server is the HTTP API server for heritage.
type Server struct {
	router   chi.Router
	runner   *pipeline.Runner
	records  *family.RecordSet
	log      *log.Logger
	hooks    observability.Hooks
	metrics  http.Handler
	defaults pipeline.Options
}

// Option configures a Server.
type Option func(*Server)

// WithHooks reports request outcomes to h.
func WithHooks(h observability.Hooks) Option {
	return func(s *Server) { s.hooks = h }
}

// WithMetrics mounts h at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithExportDefaults sets the options every export starts from.
// Root and Formats are replaced per request.
func WithExportDefaults(opts pipeline.Options) Option {
	return func(s *Server) { s.defaults = opts }
}

// NewServer creates and configures the HTTP server over a fixed record set.
func NewServer(runner *pipeline.Runner, records *family.RecordSet, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{
		runner:  runner,
		records: records,
		log:     logger,
		hooks:   observability.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hooks = s.hooks.WithDefaults()
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(s.log))
	r.Use(Instrument(s.hooks.HTTP))

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Get("/api/roots", s.handleRoots)
	r.Get("/api/validate", s.handleValidate)
	r.Get("/api/trees/{root}", s.handleTree)
	r.Get("/api/trees/{root}/report", s.handleReport)
	r.Get("/api/trees/{root}/pages", s.handlePages)
	r.Get("/api/trees/{root}/export.{format}", s.handleExport)
	r.Get("/api/members/{serNo}/profile", s.handleProfile)

	s.router = r
}
