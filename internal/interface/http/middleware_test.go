package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/yanqian/poppy/internal/infra/config"
)

func TestWithRetryReplaysTransientFailure(t *testing.T) {
	attempts := 0
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Equal(t, `{"rating":5}`, string(body))
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	handler := withRetry(inner, config.RetryConfig{
		Enabled:     true,
		MaxAttempts: 3,
		BaseBackoff: time.Millisecond,
	}, discardLogger())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader(`{"rating":5}`)))

	require.Equal(t, 2, attempts)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", w.Body.String())
}

func TestWithRetryGivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	})

	handler := withRetry(inner, config.RetryConfig{
		Enabled:     true,
		MaxAttempts: 3,
		BaseBackoff: time.Millisecond,
	}, discardLogger())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader("{}")))

	require.Equal(t, 3, attempts)
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestWithRetrySkipsExcludedPathsAndNonPost(t *testing.T) {
	attempts := 0
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	})

	handler := withRetry(inner, config.RetryConfig{
		Enabled:     true,
		MaxAttempts: 3,
		BaseBackoff: time.Millisecond,
		Exclude:     []string{"/api/recommendations"},
	}, discardLogger())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/recommendations", strings.NewReader("{}")))
	require.Equal(t, 1, attempts)

	attempts = 0
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	require.Equal(t, 1, attempts)
}

func TestWithRetryDisabledPassesThrough(t *testing.T) {
	attempts := 0
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	})
	handler := withRetry(inner, config.RetryConfig{Enabled: false, MaxAttempts: 3}, discardLogger())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader("{}")))
	require.Equal(t, 1, attempts)
	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestRateLimitMiddlewareExhaustsBurst(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	logger := discardLogger()

	router := gin.New()
	router.Use(
		errorHandlingMiddleware(logger),
		rateLimitMiddleware(config.RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 1,
			Burst:             2,
		}, logger),
	)
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	// httptest requests share a RemoteAddr, so they count against one bucket.
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Contains(t, w.Body.String(), "detail")
}

func TestRateLimiterRefillsOverTime(t *testing.T) {
	limiter := newIPRateLimiter(config.RateLimitConfig{RequestsPerMinute: 60, Burst: 1})

	require.True(t, limiter.allow("10.0.0.1"))
	require.False(t, limiter.allow("10.0.0.1"))

	// Another client keeps its own bucket.
	require.True(t, limiter.allow("10.0.0.2"))

	// Backdate the first visitor one second; at 60 rpm that refills one token.
	limiter.mu.Lock()
	limiter.visitors["10.0.0.1"].lastSeen = time.Now().Add(-time.Second)
	limiter.mu.Unlock()
	require.True(t, limiter.allow("10.0.0.1"))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
