package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 60 * time.Second
	minWriteTimeout   = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// NewServer builds an http.Server whose write deadline leaves room for a
// downstream call of up to downstream.
func NewServer(addr string, h http.Handler, downstream time.Duration) *http.Server {
	wt := minWriteTimeout
	if d := downstream + 5*time.Second; d > wt {
		wt = d
	}
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      wt,
		IdleTimeout:       idleTimeout,
	}
}

// Serve runs srv until ctx is cancelled, then drains in-flight requests.
func Serve(ctx context.Context, srv *http.Server, logger *log.Entry) error {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}
	return serveListener(ctx, srv, ln, logger)
}

func serveListener(ctx context.Context, srv *http.Server, ln net.Listener, logger *log.Entry) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("bye")
	return nil
}
