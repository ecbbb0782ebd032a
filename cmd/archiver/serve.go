package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/avolkov/tgarchive/internal/di"
	"github.com/avolkov/tgarchive/internal/scheduler"
	"github.com/avolkov/tgarchive/internal/shared/config"
	httpServer "github.com/avolkov/tgarchive/internal/transport/http"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP trigger and, if configured, the daily export job",
		RunE: func(_ *cobra.Command, _ []string) error {
			injector, err := di.Setup()
			if err != nil {
				return err
			}
			defer func() {
				if err := di.Shutdown(injector); err != nil {
					slog.Error("Error during shutdown", "error", err)
				}
			}()

			cfg := do.MustInvoke[*config.Config](injector)
			server := do.MustInvoke[*httpServer.Server](injector)

			if cfg.Schedule.Enabled {
				sched := do.MustInvoke[*scheduler.Scheduler](injector)
				if err := sched.Start(); err != nil {
					return err
				}
			}

			go func() {
				if err := server.Start(); err != nil {
					slog.Error("Failed to start HTTP server", "error", err)
					os.Exit(1)
				}
			}()

			slog.Info("Application started", "port", cfg.HTTPPort)
			slog.Info("Press Ctrl+C to stop")

			// Graceful shutdown
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			<-ctx.Done()
			slog.Info("Shutting down...")
			return nil
		},
	}
}
