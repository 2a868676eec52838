package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"lendmatch/internal/ratelimit/middleware/mocks"
	"lendmatch/internal/ratelimit/models"
	"lendmatch/internal/ratelimit/store"
	"lendmatch/pkg/requestcontext"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
}

func requestFrom(method, ip string) *http.Request {
	req := httptest.NewRequest(method, "/borrowers", nil)
	return req.WithContext(requestcontext.WithClientIP(req.Context(), ip))
}

func TestLimitDeniesAfterBudget(t *testing.T) {
	mw := New(store.NewInMemoryBucketStore(), discardLogger(),
		WithLimit(models.ClassIntake, models.Limit{Requests: 2, Window: time.Minute}),
	)
	h := mw.Limit(models.ClassIntake)(okHandler())

	for i := range 2 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestFrom(http.MethodPost, "10.0.0.1"))
		require.Equal(t, http.StatusCreated, rec.Code, "request %d", i)
		assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom(http.MethodPost, "10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), `"error":"rate_limit_exceeded"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom(http.MethodPost, "10.0.0.2"))
	assert.Equal(t, http.StatusCreated, rec.Code, "other clients keep their own budget")
}

func TestLimitSkipsReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	bucket := mocks.NewMockBucketStore(ctrl)
	h := New(bucket, discardLogger()).Limit(models.ClassIntake)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom(http.MethodGet, "10.0.0.1"))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestLimitFailsOpenOnStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	bucket := mocks.NewMockBucketStore(ctrl)
	bucket.EXPECT().
		Allow(gomock.Any(), "ratelimit:policy_write:10.0.0.1", 60, time.Minute).
		Return(nil, errors.New("redis down"))

	h := New(bucket, discardLogger()).Limit(models.ClassPolicyWrite)(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom(http.MethodPut, "10.0.0.1"))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestLimitDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	bucket := mocks.NewMockBucketStore(ctrl)
	h := New(bucket, discardLogger(), WithDisabled(true)).Limit(models.ClassIntake)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom(http.MethodPost, "10.0.0.1"))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestNilMiddlewarePassesThrough(t *testing.T) {
	var mw *Middleware
	rec := httptest.NewRecorder()
	mw.Limit(models.ClassIntake)(okHandler()).ServeHTTP(rec, requestFrom(http.MethodPost, "10.0.0.1"))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestWritesClassifiesByPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	bucket := mocks.NewMockBucketStore(ctrl)
	allowed := &models.Result{Allowed: true, Limit: 1, Remaining: 0, ResetAt: time.Now()}
	bucket.EXPECT().Allow(gomock.Any(), "ratelimit:intake:10.0.0.1", 30, time.Minute).Return(allowed, nil)
	bucket.EXPECT().Allow(gomock.Any(), "ratelimit:policy_write:10.0.0.1", 60, time.Minute).Return(allowed, nil)

	h := New(bucket, discardLogger()).Writes()(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom(http.MethodPost, "10.0.0.1"))
	assert.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodPut, "/lenders/abc/policy", nil)
	req = req.WithContext(requestcontext.WithClientIP(req.Context(), "10.0.0.1"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}
