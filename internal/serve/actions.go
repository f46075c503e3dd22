// Package serve implements the serve command: run the HTTP API until the
// process is interrupted.
package serve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dtnitsch/web-summarizer/internal/common"
	"github.com/dtnitsch/web-summarizer/pkg/api"
	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"
)

func ServeAction(c *cli.Context) error {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("addr") {
		cfg.Server.Addr = c.String("addr")
	}
	if c.IsSet("base-path") {
		cfg.Server.BasePath = strings.TrimSuffix(c.String("base-path"), "/")
	}
	logger := common.NewLogger(cfg.Log, nil)

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := common.NewServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := api.NewSummaryHandler(svc.Summarizer, svc.Retrieval, svc.Store, logger)
	router := api.NewRouter(cfg.Server, handler, logger)

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Addr, err)
	}

	return serve(ctx, logger, &http.Server{Handler: router}, ln, cfg.Server.ShutdownGrace)
}

// serve runs srv on ln until ctx is done, then shuts down within grace.
func serve(ctx context.Context, logger *slog.Logger, srv *http.Server, ln net.Listener, grace time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server", "grace", grace.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
