package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nao1215/jpfill/internal/config"
	"github.com/nao1215/jpfill/internal/validation"
)

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	router   *chi.Mux
	logger   *slog.Logger
	validate *validation.Validator

	// file supplies per-site settings for requests that carry a URL.
	file *config.File

	seed          uint64
	settleTimeout time.Duration
	maxBodySize   int64
	version       string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithConfigFile sets the per-site settings.
func WithConfigFile(file *config.File) Option {
	return func(s *Server) {
		s.file = file
	}
}

// WithSeed makes every request fill with the same data. Zero keeps random
// seeding.
func WithSeed(seed uint64) Option {
	return func(s *Server) {
		s.seed = seed
	}
}

// WithSettleTimeout bounds the wait for deferred widget writes per request.
func WithSettleTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.settleTimeout = d
	}
}

// WithMaxBodySize limits the request body.
func WithMaxBodySize(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodySize = n
		}
	}
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// New creates a Server with all routes configured.
func New(opts ...Option) *Server {
	s := &Server{
		router:        chi.NewRouter(),
		logger:        slog.Default(),
		validate:      validation.New(),
		settleTimeout: config.DefaultSettleTimeout,
		maxBodySize:   config.DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(s.limitBody)
		r.Post("/fill", s.handleFill)
		r.Post("/clear", s.handleClear)
	})
}

// requestLogger logs every request through the server's slog logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBodySize)
		next.ServeHTTP(w, r)
	})
}
