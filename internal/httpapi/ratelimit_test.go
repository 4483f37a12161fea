package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter_DisabledWhenZero(t *testing.T) {
	require.Nil(t, NewRateLimiter(0, 10))
	require.Nil(t, NewRateLimiter(-1, 10))
}

func TestRateLimiter_BurstThenReject(t *testing.T) {
	l := NewRateLimiter(1, 2)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	require.True(t, l.Allow("a"))
	require.True(t, l.Allow("a"))
	require.False(t, l.Allow("a"))
	require.True(t, l.Allow("b"), "buckets are per client")

	now = now.Add(time.Second)
	require.True(t, l.Allow("a"))
}

func TestRateLimiter_PrunesIdleEntries(t *testing.T) {
	l := NewRateLimiter(1, 1)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	l.Allow("old")
	now = now.Add(limiterIdleTTL + time.Minute)
	l.pruneLocked(now)
	require.NotContains(t, l.entries, "old")
}

func TestRateLimiter_Middleware429(t *testing.T) {
	l := NewRateLimiter(1, 1)
	h := WithRequestID(l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.RemoteAddr = "10.0.0.1:5555"

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	require.Equal(t, "1", rr.Header().Get("Retry-After"))
	require.Equal(t, "too_many_requests", decode[errBody](t, rr).Error)
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:1234"
	require.Equal(t, "192.0.2.7", clientKey(req))

	req.RemoteAddr = "pipe"
	require.Equal(t, "pipe", clientKey(req))

	req.RemoteAddr = ""
	require.Equal(t, "unknown", clientKey(req))
}
