// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableClient forces the limiter onto its local bucket.
func unreachableClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRateLimiterFallsBackToLocalBucket(t *testing.T) {
	rl := NewRateLimiter(unreachableClient(t), RateLimitConfig{
		Limit:    PerMinute(1, 1),
		KeyFunc:  KeyByIPAndPath,
		FailOpen: true,
	})
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "203.0.113.9:4100"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := call("/v1/auth/login")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))

	rec = call("/v1/auth/login")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "RATE_LIMITED")

	rec = call("/v1/auth/signup")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRateLimitKeys(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login/", nil)
	req.RemoteAddr = "10.0.0.2:4100"

	assert.Equal(t, "ratelimit:ip:10.0.0.2", KeyByIP(req))
	assert.Equal(t, "ratelimit:auth:10.0.0.2:v1/auth/login", KeyByIPAndPath(req))
}

func TestRateLimiterIgnoresSpoofedForwardingHeaders(t *testing.T) {
	rl := NewRateLimiter(unreachableClient(t), RateLimitConfig{
		Limit:    PerMinute(1, 1),
		KeyFunc:  KeyByIPAndPath,
		FailOpen: true,
	})
	h := RealIP(0)(rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	codes := make([]int, 0, 3)
	for _, spoofed := range []string{"198.51.100.1", "198.51.100.2", "198.51.100.3"} {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/verify-otp", nil)
		req.RemoteAddr = "203.0.113.9:4100"
		req.Header.Set("X-Forwarded-For", spoofed)
		req.Header.Set("X-Real-IP", spoofed)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{
		http.StatusNoContent,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
	}, codes)
}
