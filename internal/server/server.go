// Package server exposes the profile generation pipeline over HTTP.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/profilegen/internal/health"
	"github.com/sells-group/profilegen/internal/job"
	"github.com/sells-group/profilegen/internal/pipeline"
)

// Config controls the HTTP layer.
type Config struct {
	// RequestTimeout bounds one request end to end, queueing included.
	RequestTimeout time.Duration
	// RateLimit is requests per second per client IP; RateBurst is the
	// bucket size. Zero disables rate limiting.
	RateLimit float64
	RateBurst int
	// AllowedOrigins configures CORS. Empty allows all origins.
	AllowedOrigins []string
}

// DefaultConfig returns production settings.
func DefaultConfig() Config {
	return Config{
		RequestTimeout: 3 * time.Minute,
		RateLimit:      5,
		RateBurst:      10,
	}
}

// Server holds handler dependencies.
type Server struct {
	orch    *job.Orchestrator
	gen     *pipeline.Generator
	checker *health.Checker
	cfg     Config
	log     *zap.Logger
	limiter *rateLimiter
}

// New creates the Server.
func New(orch *job.Orchestrator, gen *pipeline.Generator, checker *health.Checker, cfg Config) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultConfig().RequestTimeout
	}
	return &Server{
		orch:    orch,
		gen:     gen,
		checker: checker,
		cfg:     cfg,
		log:     zap.L().With(zap.String("component", "server")),
	}
}

// Router builds the chi router with the full middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if s.cfg.RateLimit > 0 {
		s.limiter = newRateLimiter(s.cfg.RateLimit, s.cfg.RateBurst)
		r.Use(s.limiter.middleware)
	}

	r.Route("/profile", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Post("/generate/async", s.handleGenerateAsync)
		r.Post("/batch/generate", s.handleBatchGenerate)
		r.Get("/status/{generationID}", s.handleStatus)
		r.Get("/result/{generationID}", s.handleResult)
		r.Get("/analyze/sources", s.handleAnalyzeSources)
		r.Get("/templates", s.handleTemplates)
		r.Get("/health", s.handleHealth)
	})

	return r
}

// Close releases server-owned background resources.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.close()
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
