package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/population-dashboard/internal/adapter/http"
	"github.com/couchcryptid/population-dashboard/internal/charts"
	"github.com/couchcryptid/population-dashboard/internal/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP server (default).",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		logger := observability.NewLogger(cfg)

		a, err := loadApp(observability.NewMetrics(), logger)
		if err != nil {
			logger.Error("failed to load population table", "path", cfg.DataPath, "error", err)
			os.Exit(1)
		}

		chartSize := charts.Options{Width: cfg.ChartWidth, Height: cfg.ChartHeight}
		srv := httpadapter.NewServer(cfg.HTTPAddr, a.service(), chartSize, a.metrics, logger)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case <-ctx.Done():
		case err := <-errCh:
			logger.Error("http server error", "error", err)
			return err
		}
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
