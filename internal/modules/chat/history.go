package chat

import (
	"context"
	"time"

	"github.com/gotd/td/tg"
	"github.com/samber/oops"

	"github.com/avolkov/tgarchive/internal/modules/export/domain"
	apperrors "github.com/avolkov/tgarchive/internal/shared/errors"
)

// historyStream pages through messages.getHistory, newest first. The session
// mutex is held only for the duration of each page RPC.
type historyStream struct {
	client     *Client
	identifier string
	peer       tg.InputPeerClass
	window     domain.Window

	buf      []domain.Message
	cur      domain.Message
	offsetID int
	done     bool
	err      error
}

func (h *historyStream) Next(ctx context.Context) bool {
	for {
		if len(h.buf) > 0 {
			h.cur = h.buf[0]
			h.buf = h.buf[1:]
			return true
		}
		if h.done || h.err != nil {
			return false
		}
		h.fetchPage(ctx)
	}
}

func (h *historyStream) Message() domain.Message { return h.cur }

func (h *historyStream) Err() error { return h.err }

func (h *historyStream) fetchPage(ctx context.Context) {
	h.client.mu.Lock()
	res, err := h.client.api.MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{
		Peer:     h.peer,
		OffsetID: h.offsetID,
		Limit:    h.client.pageSize,
	})
	h.client.mu.Unlock()
	if err != nil {
		switch {
		case sessionLost(err):
			h.err = apperrors.SessionFatal(err)
		case tgerrNotFound(err):
			h.err = &apperrors.ChatNotFoundError{Identifier: h.identifier}
		default:
			h.err = oops.With("identifier", h.identifier).Wrap(err)
		}
		return
	}

	raw, ok := rawMessages(res)
	if !ok {
		h.err = oops.With("identifier", h.identifier).Errorf("unexpected history response %T", res)
		return
	}
	if len(raw) == 0 {
		h.done = true
		return
	}

	for _, mc := range raw {
		h.offsetID = mc.GetID()
		msg, ok := mc.(*tg.Message)
		if !ok {
			continue // service messages carry no archivable content
		}
		dm, ok := toDomain(msg)
		if !ok {
			continue
		}
		h.buf = append(h.buf, dm)
		// Pages arrive newest first; once a message predates the lower
		// bound nothing older can match, so stop paginating.
		if !h.window.From.IsZero() && dm.Date.Before(h.window.From) {
			h.done = true
		}
	}
}

func rawMessages(res tg.MessagesMessagesClass) ([]tg.MessageClass, bool) {
	switch m := res.(type) {
	case *tg.MessagesMessages:
		return m.Messages, true
	case *tg.MessagesMessagesSlice:
		return m.Messages, true
	case *tg.MessagesChannelMessages:
		return m.Messages, true
	default:
		return nil, false
	}
}

func toDomain(m *tg.Message) (domain.Message, bool) {
	out := domain.Message{
		ID:   int64(m.ID),
		Date: time.Unix(int64(m.Date), 0).UTC(),
		Text: m.Message,
	}
	if from, ok := m.GetFromID(); ok {
		switch p := from.(type) {
		case *tg.PeerUser:
			out.SenderID = p.UserID
		case *tg.PeerChannel:
			out.SenderID = p.ChannelID
		case *tg.PeerChat:
			out.SenderID = p.ChatID
		}
	}
	if media, ok := m.GetMedia(); ok {
		out.MediaRef = mediaRef(media)
	}
	if out.Text == "" && out.MediaRef == "" {
		return domain.Message{}, false
	}
	return out, true
}

func mediaRef(m tg.MessageMediaClass) string {
	switch m.(type) {
	case *tg.MessageMediaPhoto:
		return "photo"
	case *tg.MessageMediaDocument:
		return "document"
	case *tg.MessageMediaWebPage:
		return "webpage"
	case *tg.MessageMediaGeo:
		return "geo"
	case *tg.MessageMediaPoll:
		return "poll"
	default:
		return ""
	}
}
