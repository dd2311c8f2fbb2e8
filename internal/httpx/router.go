package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/avh-labs/audiencehub/internal/config"
	"github.com/avh-labs/audiencehub/internal/core"
	"github.com/avh-labs/audiencehub/internal/logging"
)

// EdgeRouter is the single HTTP entry point. It mounts every enabled module
// under its own path prefix and dispatches incoming requests to it.
type EdgeRouter struct {
	router chi.Router
	cfg    *config.Config
	logger logging.Logger
}

// NewEdgeRouter creates and configures a new edge router instance.
// It sets up middleware for request ID, logging, recovery, and timeouts.
// Modules should be registered via core.RegisterModule() before calling this.
func NewEdgeRouter(cfg *config.Config, logger logging.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLoggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check endpoint - always available regardless of enabled modules
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"audiencehub"}`))
	})

	// Mount routes for each enabled module
	modules := core.RegisteredModules()
	for _, module := range modules {
		if cfg.IsModuleEnabled(module.Name()) {
			logger.Info("mounting module routes",
				logging.String("module", module.Name()),
			)

			// Each module gets its own sub-router under /<name>
			r.Route("/"+module.Name(), func(r chi.Router) {
				module.RegisterRoutes(r)
			})
		} else {
			logger.Info("skipping module (not enabled)",
				logging.String("module", module.Name()),
			)
		}
	}

	return &EdgeRouter{
		router: r,
		cfg:    cfg,
		logger: logger,
	}
}

// ServeHTTP implements http.Handler interface.
func (er *EdgeRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	er.router.ServeHTTP(w, r)
}

// requestLoggingMiddleware creates middleware that logs HTTP requests with
// structured logging including method, path, status code, and latency.
func requestLoggingMiddleware(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap response writer to capture status code
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			logger.Info("request completed",
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", ww.Status()),
				logging.Duration("latency_ms", duration.Milliseconds()),
				logging.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}
