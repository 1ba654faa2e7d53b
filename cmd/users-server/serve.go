package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		as, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer as.Logger.Sync()
		defer as.Close()

		if err := as.Health.StartupHealthCheck(ctx); err != nil {
			as.Logger.Warn("Store not healthy at startup, serving anyway", zap.Error(err))
		}

		addr := as.Config.Common.Http.Addr()
		srv := &http.Server{
			Addr:    addr,
			Handler: as.Router(),
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			as.Logger.Info("Starting users server", zap.String("address", addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			as.Logger.Info("Shutting down server...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				as.Logger.Error("Error during server shutdown", zap.Error(err))
				return err
			}
			return nil
		})

		if err := g.Wait(); err != nil {
			as.Logger.Error("Server stopped with error", zap.Error(err))
			return err
		}
		as.Logger.Info("Server shutdown complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
