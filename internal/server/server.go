// Package server exposes the reconstruction pipeline over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ppiankov/chronos/internal/model"
	"github.com/ppiankov/chronos/internal/pipeline"
)

// Reconstructor produces a structured reconstruction for a fragment
type Reconstructor interface {
	Reconstruct(ctx context.Context, fragment string) (*model.ReconstructionResult, error)
}

// SourceSearcher returns ranked sources for a query; it never fails
type SourceSearcher interface {
	Aggregate(ctx context.Context, query, searchType string) model.SearchResultSet
}

// PipelineRunner runs the full reconstruct then search sequence
type PipelineRunner interface {
	Run(ctx context.Context, fragment string) *pipeline.Run
}

// Deps are the components served by the API
type Deps struct {
	Reconstructor Reconstructor
	Sources       SourceSearcher
	Pipeline      PipelineRunner
}

// Server holds the routes and their dependencies
type Server struct {
	deps         Deps
	logger       *zap.Logger
	maxBodyBytes int64
	now          func() time.Time
	mux          *http.ServeMux
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxBodyBytes caps request body size
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// New creates a server and registers its routes
func New(deps Deps, opts ...Option) *Server {
	s := &Server{
		deps:         deps,
		logger:       zap.NewNop(),
		maxBodyBytes: 64 << 10,
		now:          time.Now,
		mux:          http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.route("POST /api/reconstruct", "reconstruct", s.handleReconstruct)
	s.route("POST /api/search", "search", s.handleSearch)
	s.route("POST /api/pipeline", "pipeline", s.handlePipeline)
	s.route("GET /health", "health", s.handleHealth)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

func (s *Server) route(pattern, name string, h http.HandlerFunc) {
	s.mux.Handle(pattern, s.instrument(name, h))
}

// Handler returns the root handler with request IDs applied
func (s *Server) Handler() http.Handler {
	return requestID(s.mux)
}

// NewHTTPServer wraps the handler in an http.Server with the configured
// timeouts
func (s *Server) NewHTTPServer(cfg model.ServerConfig) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadTimeout:       time.Duration(cfg.ReadTimeout) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
