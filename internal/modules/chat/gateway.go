// Package chat owns the Telegram session and message-history retrieval.
package chat

import (
	"context"

	"github.com/avolkov/tgarchive/internal/modules/export/domain"
)

// Gateway resolves chat identifiers and streams their message history.
//
// History resolves the identifier to a chat and returns a lazy stream of its
// messages in descending timestamp order (newest first), paginated in bounded
// pages so arbitrarily large chats never materialize in memory at once. The
// window lets the gateway stop paginating once pages fall past the lower
// bound; exact inclusion is still the caller's filter's job.
//
// Unresolvable or inaccessible identifiers fail with a ChatNotFoundError.
// A lost session surfaces as ErrSessionFatal from the stream or the resolve
// step; it is never a per-identifier condition.
type Gateway interface {
	History(ctx context.Context, identifier string, window domain.Window) (domain.Stream, error)
}
