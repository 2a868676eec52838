package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lendmatch/internal/ratelimit/metrics"
	"lendmatch/internal/ratelimit/models"
	"lendmatch/pkg/platform/httputil"
	"lendmatch/pkg/requestcontext"
)

//go:generate mockgen -source=ratelimit.go -destination=mocks/mocks.go -package=mocks

// BucketStore counts requests in a sliding window.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.Result, error)
}

// Middleware limits write traffic per client IP.
type Middleware struct {
	store    BucketStore
	limits   map[models.Class]models.Limit
	logger   *slog.Logger
	metrics  *metrics.Metrics
	disabled bool
}

type Option func(*Middleware)

func WithLimit(class models.Class, limit models.Limit) Option {
	return func(m *Middleware) {
		if limit.Requests > 0 && limit.Window > 0 {
			m.limits[class] = limit
		}
	}
}

func WithMetrics(mx *metrics.Metrics) Option {
	return func(m *Middleware) {
		m.metrics = mx
	}
}

// WithDisabled turns every check into a pass-through.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

// DefaultLimits are applied unless overridden with WithLimit.
func DefaultLimits() map[models.Class]models.Limit {
	return map[models.Class]models.Limit{
		models.ClassIntake:      {Requests: 30, Window: time.Minute},
		models.ClassPolicyWrite: {Requests: 60, Window: time.Minute},
	}
}

func New(store BucketStore, logger *slog.Logger, opts ...Option) *Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Middleware{
		store:  store,
		limits: DefaultLimits(),
		logger: logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// Limit applies the class budget to mutating requests. Reads pass through.
// A failing store lets the request through.
func (m *Middleware) Limit(class models.Class) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil || m.disabled || !mutating(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			limit, ok := m.limits[class]
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			ip := requestcontext.ClientIP(ctx)
			result, err := m.store.Allow(ctx, models.Key(class, ip), limit.Requests, limit.Window)
			if err != nil {
				m.metrics.IncStoreError()
				m.logger.ErrorContext(ctx, "failed to check rate limit",
					"class", string(class),
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			m.metrics.IncCheck(string(class), result.Allowed)
			addRateLimitHeaders(w, result)
			if !result.Allowed {
				m.logger.WarnContext(ctx, "rate limit exceeded",
					"class", string(class),
					"request_id", requestcontext.RequestID(ctx),
				)
				writeRateLimitExceeded(w, result)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Writes limits borrower submissions under ClassIntake and every other
// mutating route under ClassPolicyWrite.
func (m *Middleware) Writes() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		intake := m.Limit(models.ClassIntake)(next)
		policy := m.Limit(models.ClassPolicyWrite)(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/borrowers") {
				intake.ServeHTTP(w, r)
				return
			}
			policy.ServeHTTP(w, r)
		})
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.Result) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.ExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    "Too many requests from this IP address. Please try again later.",
		RetryAfter: result.RetryAfter,
	})
}
