// Package service runs the export pipeline: resolve, fetch, filter, archive.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/avolkov/tgarchive/internal/modules/chat"
	"github.com/avolkov/tgarchive/internal/modules/export/domain"
	"github.com/avolkov/tgarchive/internal/modules/export/repository"
	apperrors "github.com/avolkov/tgarchive/internal/shared/errors"
)

// Service orchestrates one batch run over a list of chat identifiers.
type Service struct {
	gateway chat.Gateway
	repo    repository.Repository
	logger  *slog.Logger
}

func New(gateway chat.Gateway, repo repository.Repository) *Service {
	return &Service{
		gateway: gateway,
		repo:    repo,
		logger:  slog.Default(),
	}
}

// Run processes identifiers sequentially, in input order, and returns one
// Outcome per identifier in that same order. A failure while processing one
// identifier never touches its siblings; it is recorded as a failed Outcome
// and the loop moves on. Only a lost session or an unreachable bucket aborts
// the run, in which case no Summary is produced.
func (s *Service) Run(ctx context.Context, identifiers []string, window domain.Window) (domain.Summary, error) {
	if err := s.repo.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	summary := make(domain.Summary, 0, len(identifiers))
	for _, identifier := range identifiers {
		outcome, err := s.processOne(ctx, identifier, window)
		if err != nil {
			return nil, err
		}
		summary = append(summary, outcome)
	}
	return summary, nil
}

func (s *Service) processOne(ctx context.Context, identifier string, window domain.Window) (domain.Outcome, error) {
	outcome := domain.Outcome{Identifier: identifier}

	stream, err := s.gateway.History(ctx, identifier, window)
	if err != nil {
		return s.failed(outcome, err)
	}

	messages, err := domain.Collect(ctx, domain.Filter(stream, window))
	if err != nil {
		return s.failed(outcome, err)
	}

	// An empty window still produces an archive: downstream consumers rely
	// on one artifact per identifier per run.
	locator, err := s.repo.Store(ctx, domain.NewArchive(identifier, window, messages))
	if err != nil {
		return s.failed(outcome, err)
	}

	outcome.MessageCount = len(messages)
	outcome.ArchiveLocator = locator
	s.logger.Info("chat archived", "identifier", identifier, "messages", len(messages), "locator", locator)
	return outcome, nil
}

// failed converts a per-identifier error into a failed Outcome. Session loss
// is the one condition that escapes the per-identifier boundary.
func (s *Service) failed(outcome domain.Outcome, err error) (domain.Outcome, error) {
	if errors.Is(err, apperrors.ErrSessionFatal) {
		return domain.Outcome{}, err
	}
	s.logger.Error("failed to archive chat", "identifier", outcome.Identifier, "error", err)
	outcome.Err = err
	return outcome, nil
}
