package di

import (
	"context"
	"log/slog"

	"github.com/samber/do/v2"
	"github.com/samber/oops"

	"github.com/avolkov/tgarchive/internal/modules/chat"
	exportRepo "github.com/avolkov/tgarchive/internal/modules/export/repository"
	exportService "github.com/avolkov/tgarchive/internal/modules/export/service"
	"github.com/avolkov/tgarchive/internal/scheduler"
	"github.com/avolkov/tgarchive/internal/shared/config"
	httpServer "github.com/avolkov/tgarchive/internal/transport/http"
)

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	// Register Telegram Session (process-lifetime, authenticated once)
	do.Provide(injector, func(i do.Injector) (*chat.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		client, err := chat.Connect(context.Background(), cfg)
		if err != nil {
			return nil, oops.With("context", "failed to establish telegram session").Wrap(err)
		}
		return client, nil
	})

	// Register Archive Repository
	do.Provide(injector, func(i do.Injector) (exportRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := exportRepo.NewS3Storage(context.Background(), cfg)
		if err != nil {
			return nil, oops.With("bucket", cfg.S3.Bucket, "context", "failed to initialize archive repository").Wrap(err)
		}
		return repo, nil
	})

	// Register Export Service
	do.Provide(injector, func(i do.Injector) (*exportService.Service, error) {
		client := do.MustInvoke[*chat.Client](i)
		repo := do.MustInvoke[exportRepo.Repository](i)
		return exportService.New(client, repo), nil
	})

	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		export := do.MustInvoke[*exportService.Service](i)
		server := httpServer.New(cfg, export)
		server.SetLogger(slog.Default())
		return server, nil
	})

	// Register Scheduler
	do.Provide(injector, func(i do.Injector) (*scheduler.Scheduler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		export := do.MustInvoke[*exportService.Service](i)
		return scheduler.New(cfg, export)
	})

	return injector, nil
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	// Stop scheduler if it exists
	if sched, err := do.Invoke[*scheduler.Scheduler](injector); err == nil && sched != nil {
		if err := sched.Stop(); err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}

	// Close telegram session if it exists
	if client, err := do.Invoke[*chat.Client](injector); err == nil && client != nil {
		if err := client.Close(); err != nil {
			return err
		}
	}

	return nil
}
