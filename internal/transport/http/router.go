package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"lendmatch/internal/platform/metrics"
	"lendmatch/internal/platform/middleware"
	ratelimit "lendmatch/internal/ratelimit/middleware"
	"lendmatch/pkg/platform/httputil"
	"lendmatch/pkg/platform/middleware/metadata"
	"lendmatch/pkg/platform/middleware/requesttime"
)

const (
	requestTimeout = 30 * time.Second
	healthTimeout  = 2 * time.Second
)

// Registrar mounts one module's endpoints.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck checks one dependency. A nil error means healthy.
type HealthCheck func(ctx context.Context) error

type RouterConfig struct {
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	// Checks are reported by /healthz keyed by dependency name.
	Checks    map[string]HealthCheck
	// RateLimit guards mutating module routes when set.
	RateLimit *ratelimit.Middleware
}

// NewRouter wires the middleware chain, operational endpoints and every
// module's routes. Handlers stay thin and delegate to their services.
func NewRouter(cfg RouterConfig, modules ...Registrar) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	r.Get("/healthz", healthHandler(cfg.Checks))
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(api chi.Router) {
		api.Use(chimiddleware.Timeout(requestTimeout))
		api.Use(middleware.ContentTypeJSON)
		if cfg.RateLimit != nil {
			api.Use(cfg.RateLimit.Writes())
		}
		for _, m := range modules {
			m.Register(api)
		}
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
		status := http.StatusOK
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
