package httpbase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const defaultShutdownTimeout = 5 * time.Second

// GracefulServer wraps http.Server with signal-driven graceful shutdown:
// on SIGINT/SIGTERM it stops accepting connections and drains in-flight
// requests for the configured timeout before exiting.
type GracefulServer struct {
	server          *http.Server
	shutdownTimeout time.Duration
}

type GraceServerOpt struct {
	Port int
	// drain window for in-flight requests, defaultShutdownTimeout when zero
	ShutdownTimeout time.Duration
}

func NewGracefulServer(opt GraceServerOpt, handler http.Handler) *GracefulServer {
	timeout := opt.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	return &GracefulServer{
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", opt.Port),
			Handler: handler,
		},
		shutdownTimeout: timeout,
	}
}

// Run starts the server and blocks until a termination signal arrives or
// the listener fails.
func (s *GracefulServer) Run() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server listen failed", slog.String("addr", s.server.Addr), slog.Any("error", err))
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	slog.Info("shutting down http server", slog.Duration("drain_timeout", s.shutdownTimeout))

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		slog.Error("http server shutdown failed", slog.Any("error", err))
		return
	}
	slog.Info("http server stopped")
}
