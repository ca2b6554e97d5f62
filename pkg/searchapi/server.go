package searchapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dmitrymomot/searchkit/pkg/cache"
	"github.com/dmitrymomot/searchkit/pkg/httpserver"
	"github.com/dmitrymomot/searchkit/pkg/logger"
	"github.com/dmitrymomot/searchkit/pkg/requestid"
	"github.com/dmitrymomot/searchkit/pkg/search"
)

const defaultMaxBodySize = 10 << 20

// Server exposes a Registry over HTTP.
type Server struct {
	registry    *search.Registry
	cache       cache.Cache
	ttl         time.Duration
	log         *slog.Logger
	checks      []httpserver.Check
	maxBodySize int64
}

// Option configures a Server.
type Option func(*Server)

// WithCache caches select results in c for ttl. Writes to a core invalidate
// its cached results for every Server sharing c.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Server) {
		if c != nil {
			s.cache = c
			s.ttl = ttl
		}
	}
}

// WithLogger sets the request and error logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithHealthChecks adds readiness checks to GET /health.
func WithHealthChecks(checks ...httpserver.Check) Option {
	return func(s *Server) { s.checks = append(s.checks, checks...) }
}

// WithCoreChecks adds a readiness check per core, backed by
// search.Registry.Healthcheck. Failing checks are not reported to the sink.
func WithCoreChecks(cores ...string) Option {
	return func(s *Server) {
		for _, core := range cores {
			s.checks = append(s.checks, httpserver.Check{Name: "core:" + core, Run: func(ctx context.Context) error {
				return s.registry.Healthcheck(ctx, core)
			}})
		}
	}
}

// WithMaxBodySize bounds update and delete request bodies.
func WithMaxBodySize(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodySize = n
		}
	}
}

// New returns a Server serving cores from registry.
func New(registry *search.Registry, opts ...Option) *Server {
	s := &Server{
		registry:    registry,
		cache:       cache.Void{},
		log:         logger.Discard(),
		maxBodySize: defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("searchapi"))
	return s
}

// Router returns the HTTP handler.
//
//	GET  /health
//	GET  /cores/{core}/select
//	POST /cores/{core}/update
//	POST /cores/{core}/delete
//	POST /cores/{core}/optimize
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", httpserver.HealthCheckHandler(s.log, s.checks...))
	r.Route("/cores/{core}", func(r chi.Router) {
		r.Get("/select", s.handleSelect)
		r.Post("/update", s.handleUpdate)
		r.Post("/delete", s.handleDelete)
		r.Post("/optimize", s.handleOptimize)
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		level := slog.LevelInfo
		if ww.Status() >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.log.LogAttrs(r.Context(), level, "http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			logger.Duration(time.Since(start)),
		)
	})
}

func generationKey(core string) string { return "select-generation:" + core }

// generation returns the token select results of core are cached under. The
// token lives in the cache backend, so every Server sharing that backend,
// including one started after a restart, agrees on it. A missing token is
// replaced with a fresh one.
func (s *Server) generation(ctx context.Context, core string) (string, error) {
	raw, err := s.cache.Get(ctx, generationKey(core))
	if err == nil {
		return string(raw), nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		return "", err
	}
	return s.invalidate(ctx, core)
}

// invalidate stores a fresh token for core, orphaning its cached results.
func (s *Server) invalidate(ctx context.Context, core string) (string, error) {
	token := uuid.NewString()
	if err := s.cache.Set(ctx, generationKey(core), []byte(token), 0); err != nil {
		return "", err
	}
	return token, nil
}
