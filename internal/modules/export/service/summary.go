package service

import (
	"github.com/samber/lo"

	"github.com/avolkov/tgarchive/internal/modules/export/domain"
)

// Row is one summary entry in the response shape shared by both entry
// points. MessageCount is a pointer so a zero-message success still renders
// it while failures omit it.
type Row struct {
	Identifier     string `json:"identifier"`
	Status         string `json:"status"`
	MessageCount   *int   `json:"message_count,omitempty"`
	ArchiveLocator string `json:"archive_locator,omitempty"`
	Error          string `json:"error,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Summarize reshapes a Summary into response rows, preserving order.
func Summarize(summary domain.Summary) []Row {
	return lo.Map(summary, func(o domain.Outcome, _ int) Row {
		if o.Failed() {
			return Row{
				Identifier: o.Identifier,
				Status:     StatusFailed,
				Error:      o.Err.Error(),
			}
		}
		return Row{
			Identifier:     o.Identifier,
			Status:         StatusSuccess,
			MessageCount:   lo.ToPtr(o.MessageCount),
			ArchiveLocator: o.ArchiveLocator,
		}
	})
}
