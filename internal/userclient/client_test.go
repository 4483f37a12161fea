package userclient

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type call struct {
	service, status string
}

type recorder struct {
	mu    sync.Mutex
	calls []call
}

func (r *recorder) ObserveCall(service, status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call{service, status})
}

func quietLogger() *log.Entry {
	l := log.New()
	l.SetOutput(discard{})
	return log.NewEntry(l)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func registry(t *testing.T, status int) (*httptest.Server, *[]string) {
	t.Helper()
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.Method+" "+r.URL.Path+" rid="+r.Header.Get("X-Request-ID"))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &paths
}

func TestEnsureUserExists_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
		outcome Outcome
	}{
		{"ok", http.StatusOK, nil, Valid},
		{"not_found", http.StatusNotFound, ErrUserMissing, UserMissing},
		{"server_error", http.StatusInternalServerError, ErrUpstream, UpstreamError},
		{"bad_request", http.StatusBadRequest, ErrUpstream, UpstreamError},
		{"unprocessable", http.StatusUnprocessableEntity, ErrUpstream, UpstreamError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, paths := registry(t, tt.status)
			rec := &recorder{}
			c := New(srv.URL+"/", time.Second, WithObserver(rec), WithLogger(quietLogger()))

			err := c.EnsureUserExists(context.Background(), "abc-123")
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tt.wantErr)
				require.NotErrorIs(t, err, ErrUnavailable)
			}
			require.Equal(t, tt.outcome, OutcomeOf(err))
			require.Equal(t, []string{"GET /users/abc-123 rid="}, *paths)
			require.Len(t, rec.calls, 1)
			require.Equal(t, "user-service", rec.calls[0].service)
		})
	}
}

func TestEnsureUserExists_StatusErrorCarriesCode(t *testing.T) {
	srv, _ := registry(t, http.StatusBadGateway)
	c := New(srv.URL, time.Second, WithLogger(quietLogger()))

	err := c.EnsureUserExists(context.Background(), "u")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusBadGateway, se.Code)
	require.Contains(t, err.Error(), "502")
}

func TestEnsureUserExists_ConnectionRefused_Unavailable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	rec := &recorder{}
	c := New("http://"+addr, time.Second, WithObserver(rec), WithLogger(quietLogger()))

	err = c.EnsureUserExists(context.Background(), "u")
	require.ErrorIs(t, err, ErrUnavailable)
	require.NotErrorIs(t, err, ErrUpstream)
	require.Equal(t, Unavailable, OutcomeOf(err))
	require.Equal(t, []call{{"user-service", "error"}}, rec.calls)
}

func TestEnsureUserExists_Timeout_Unavailable(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c := New(srv.URL, 50*time.Millisecond, WithLogger(quietLogger()))
	start := time.Now()
	err := c.EnsureUserExists(context.Background(), "u")
	require.ErrorIs(t, err, ErrUnavailable)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestEnsureUserExists_ForwardsRequestIDAndEscapesPath(t *testing.T) {
	srv, paths := registry(t, http.StatusOK)
	c := New(srv.URL, time.Second,
		WithLogger(quietLogger()),
		WithHTTPClient(srv.Client()),
		WithRequestID(func(context.Context) string { return "rid-7" }),
	)

	require.NoError(t, c.EnsureUserExists(context.Background(), "a b"))
	require.Equal(t, []string{"GET /users/a b rid=rid-7"}, *paths)
}

func TestEnsureUserExists_BadBaseURL_Unavailable(t *testing.T) {
	c := New("http://[::1", time.Second, WithLogger(quietLogger()))
	err := c.EnsureUserExists(context.Background(), "u")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestNew_TimeoutDefault(t *testing.T) {
	require.Equal(t, DefaultTimeout, New("http://x", 0).Timeout())
	require.Equal(t, DefaultTimeout, New("http://x", -time.Second).Timeout())
	require.Equal(t, 2*time.Second, New("http://x", 2*time.Second).Timeout())
}

func TestOutcome_String(t *testing.T) {
	require.Equal(t, "valid", Valid.String())
	require.Equal(t, "user_missing", UserMissing.String())
	require.Equal(t, "upstream_error", UpstreamError.String())
	require.Equal(t, "unavailable", Unavailable.String())
	require.Equal(t, "unknown", Outcome(42).String())
}
