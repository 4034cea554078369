package main

import (
	"context"
	"os/signal"
	"syscall"
	"log/slog"
	"time"

	"demodeck/internal/metrics"
	"demodeck/internal/proxy"

	"github.com/gin-gonic/gin"
)

// ServeCmd runs the mock proxy until interrupted.
type ServeCmd struct {
	Addr string `help:"Listen address (overrides server.addr)"`
}

func (s *ServeCmd) Run(g *Globals) error {
	addr := g.Config.Server.Addr
	if s.Addr != "" {
		addr = s.Addr
	}
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv, err := startProxy(addr, metrics.New(true), g.Logger)
	if err != nil {
		return err
	}

	<-ctx.Done()
	g.Logger.Info("shutting down proxy")
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	return srv.Stop(stopCtx)
}

// startProxy serves the in-memory backend on addr. gin runs in release mode
// so its debug route dump stays off the terminal.
func startProxy(addr string, m *metrics.Metrics, logger *slog.Logger) (*proxy.Server, error) {
	gin.SetMode(gin.ReleaseMode)
	srv := proxy.NewServer(addr, proxy.NewRouter(proxy.NewMemoryBackend(), m, logger), logger)
	if err := srv.Start(); err != nil {
		return nil, err
	}
	return srv, nil
}
