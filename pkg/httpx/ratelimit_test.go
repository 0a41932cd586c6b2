package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitByIP(t *testing.T) {
	limit := RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}
	handler := Chain(okHandler(), RateLimitByIP(limit))

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", ip)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, hit("203.0.113.1"))
	require.Equal(t, http.StatusOK, hit("203.0.113.1"))
	require.Equal(t, http.StatusTooManyRequests, hit("203.0.113.1"))

	// A different client gets its own bucket.
	require.Equal(t, http.StatusOK, hit("203.0.113.2"))
}

func TestRateLimitSetsRetryAfter(t *testing.T) {
	limit := RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	handler := Chain(okHandler(), RateLimitByIP(limit))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimitByIPAndFormField(t *testing.T) {
	limit := RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	handler := Chain(okHandler(), RateLimitByIPAndFormField(limit, "username"))

	hit := func(username string) int {
		form := url.Values{"username": {username}}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	// Same IP, different usernames: separate buckets.
	require.Equal(t, http.StatusOK, hit("alice"))
	require.Equal(t, http.StatusOK, hit("bob"))
	require.Equal(t, http.StatusTooManyRequests, hit("alice"))
}

func TestRateLimitByUserAllowsAnonymous(t *testing.T) {
	// No identity in context means no key; the middleware lets those
	// through rather than pooling every anonymous caller into one bucket.
	limit := RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	handler := Chain(okHandler(), RateLimitByUser(limit))

	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestIPKeyExtractor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.7:4242"
	require.Equal(t, "198.51.100.7", IPKeyExtractor(req))

	req.Header.Set("X-Real-IP", "203.0.113.9")
	require.Equal(t, "203.0.113.9", IPKeyExtractor(req))

	req.Header.Set("X-Forwarded-For", "192.0.2.4, 10.0.0.1")
	require.Equal(t, "192.0.2.4", IPKeyExtractor(req))
}
