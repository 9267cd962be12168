package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"sih-portal/pkg/logger"
)

// New creates an HTTP server with the portal's timeouts
func New(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // matches the request timeout middleware
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}
}

// Serve runs srv until ctx is cancelled or the listener fails. It does not
// shut srv down; the caller owns cleanup.
func Serve(ctx context.Context, srv *http.Server, log *logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info("Received shutdown signal")
		return nil
	case err, ok := <-errCh:
		if !ok {
			return nil
		}
		log.WithError(err).Error("Server error occurred")
		return err
	}
}
