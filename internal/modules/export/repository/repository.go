package repository

import (
	"context"

	"github.com/avolkov/tgarchive/internal/modules/export/domain"
)

// Repository defines the interface for archive persistence.
type Repository interface {
	// EnsureBucket makes sure the destination bucket exists, creating it
	// if needed. Called once per batch run, before any archive is written.
	EnsureBucket(ctx context.Context) error

	// Store serializes the archive and persists it under a key derived
	// from its identifier and the current time, returning a publicly
	// dereferenceable locator. Failures are tagged ErrStorage.
	Store(ctx context.Context, archive *domain.Archive) (string, error)
}
