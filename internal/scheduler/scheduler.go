// Package scheduler runs the recurring daily export job using gocron.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/samber/oops"

	"github.com/avolkov/tgarchive/internal/modules/export/domain"
	exportService "github.com/avolkov/tgarchive/internal/modules/export/service"
	"github.com/avolkov/tgarchive/internal/shared/config"
)

// Scheduler exports yesterday's window for the configured identifier file
// once a day, shortly after midnight UTC.
type Scheduler struct {
	scheduler gocron.Scheduler
	export    *exportService.Service
	cfg       *config.Config
	logger    *slog.Logger
}

func New(cfg *config.Config, export *exportService.Service) (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, oops.With("context", "creating scheduler").Wrap(err)
	}
	return &Scheduler{
		scheduler: s,
		export:    export,
		cfg:       cfg,
		logger:    slog.Default(),
	}, nil
}

// Start registers the daily job at 00:01 UTC and starts the scheduler.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 1, 0))),
		gocron.NewTask(s.runDaily),
		gocron.WithName("daily-export"),
	)
	if err != nil {
		return oops.With("context", "registering daily export job").Wrap(err)
	}
	s.scheduler.Start()
	s.logger.Info("daily export scheduled", "file", s.cfg.Schedule.UsernamesFile)
	return nil
}

// Stop shuts the scheduler down, waiting for a running job to finish.
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *Scheduler) runDaily() {
	ctx := context.Background()
	window := yesterdayWindow(time.Now())

	identifiers, err := exportService.ReadIdentifierFile(s.cfg.Schedule.UsernamesFile)
	if err != nil {
		s.logger.Error("daily export: failed to read identifier file", "error", err)
		return
	}

	summary, err := s.export.Run(ctx, identifiers, window)
	if err != nil {
		s.logger.Error("daily export: batch run failed", "error", err)
		return
	}

	failed := 0
	for _, outcome := range summary {
		if outcome.Failed() {
			failed++
		}
	}
	s.logger.Info("daily export finished",
		"identifiers", len(summary),
		"failed", failed,
		"from", window.From.Format("2006-01-02"),
	)
}

// yesterdayWindow is the single-day window covering the previous UTC day.
func yesterdayWindow(now time.Time) domain.Window {
	y, m, d := now.UTC().AddDate(0, 0, -1).Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return domain.Window{From: day, To: day}
}
