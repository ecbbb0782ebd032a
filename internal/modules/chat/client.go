package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"github.com/samber/oops"

	"github.com/avolkov/tgarchive/internal/modules/export/domain"
	"github.com/avolkov/tgarchive/internal/shared/config"
	apperrors "github.com/avolkov/tgarchive/internal/shared/errors"
)

// Client is the process-lifetime Telegram session. One authenticated MTProto
// connection is shared by all batch runs; every RPC goes through mu, which is
// the serialization policy that makes overlapping runs safe. Pagination state
// lives in the per-call stream, so interleaved page fetches do not corrupt
// each other.
type Client struct {
	api      *tg.Client
	pageSize int

	mu   sync.Mutex
	stop context.CancelFunc
	done chan error
}

// Connect establishes the session, authenticating interactively on first run
// (confirmation code read from stdin). The connection stays up until Close.
func Connect(ctx context.Context, cfg *config.Config) (*Client, error) {
	tc := telegram.NewClient(cfg.Telegram.APIID, cfg.Telegram.APIHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: cfg.Telegram.SessionFile},
	})

	runCtx, cancel := context.WithCancel(context.Background())
	ready := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- tc.Run(runCtx, func(ctx context.Context) error {
			flow := auth.NewFlow(
				auth.Constant(cfg.Telegram.Phone, "", auth.CodeAuthenticatorFunc(promptCode)),
				auth.SendCodeOptions{},
			)
			if err := tc.Auth().IfNecessary(ctx, flow); err != nil {
				return oops.With("phone", cfg.Telegram.Phone).Wrap(err)
			}
			close(ready)
			<-ctx.Done()
			return ctx.Err()
		})
	}()

	select {
	case err := <-done:
		cancel()
		return nil, apperrors.SessionFatal(err)
	case <-ctx.Done():
		cancel()
		<-done
		return nil, ctx.Err()
	case <-ready:
	}

	return &Client{
		api:      tc.API(),
		pageSize: cfg.Telegram.PageSize,
		stop:     cancel,
		done:     done,
	}, nil
}

// Close disconnects the session.
func (c *Client) Close() error {
	c.stop()
	if err := <-c.done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// History implements Gateway.
func (c *Client) History(ctx context.Context, identifier string, window domain.Window) (domain.Stream, error) {
	peer, err := c.resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return &historyStream{client: c, identifier: identifier, peer: peer, window: window}, nil
}

func (c *Client) resolve(ctx context.Context, identifier string) (tg.InputPeerClass, error) {
	name := strings.TrimPrefix(strings.TrimSpace(identifier), "@")
	if id, err := strconv.ParseInt(name, 10, 64); err == nil {
		return c.resolveChatID(ctx, identifier, id)
	}

	c.mu.Lock()
	res, err := c.api.ContactsResolveUsername(ctx, name)
	c.mu.Unlock()
	if err != nil {
		if sessionLost(err) {
			return nil, apperrors.SessionFatal(err)
		}
		return nil, &apperrors.ChatNotFoundError{Identifier: identifier}
	}

	switch p := res.Peer.(type) {
	case *tg.PeerChannel:
		for _, ch := range res.Chats {
			if channel, ok := ch.(*tg.Channel); ok && channel.ID == p.ChannelID {
				return &tg.InputPeerChannel{ChannelID: channel.ID, AccessHash: channel.AccessHash}, nil
			}
		}
	case *tg.PeerChat:
		return &tg.InputPeerChat{ChatID: p.ChatID}, nil
	case *tg.PeerUser:
		for _, u := range res.Users {
			if user, ok := u.(*tg.User); ok && user.ID == p.UserID {
				return &tg.InputPeerUser{UserID: user.ID, AccessHash: user.AccessHash}, nil
			}
		}
	}
	return nil, &apperrors.ChatNotFoundError{Identifier: identifier}
}

// resolveChatID handles numeric identifiers, which can only address basic
// groups: channels need an access hash that a bare ID does not carry.
func (c *Client) resolveChatID(ctx context.Context, identifier string, id int64) (tg.InputPeerClass, error) {
	c.mu.Lock()
	res, err := c.api.MessagesGetChats(ctx, []int64{id})
	c.mu.Unlock()
	if err != nil {
		if sessionLost(err) {
			return nil, apperrors.SessionFatal(err)
		}
		return nil, &apperrors.ChatNotFoundError{Identifier: identifier}
	}
	for _, ch := range res.GetChats() {
		if chat, ok := ch.(*tg.Chat); ok && chat.ID == id {
			return &tg.InputPeerChat{ChatID: chat.ID}, nil
		}
	}
	return nil, &apperrors.ChatNotFoundError{Identifier: identifier}
}

func promptCode(_ context.Context, _ *tg.AuthSentCode) (string, error) {
	fmt.Print("Telegram confirmation code: ")
	code, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(code), nil
}

func tgerrNotFound(err error) bool {
	return tgerr.Is(err,
		"CHANNEL_PRIVATE",
		"CHAT_ID_INVALID",
		"PEER_ID_INVALID",
		"USERNAME_NOT_OCCUPIED",
		"USERNAME_INVALID",
	)
}

func sessionLost(err error) bool {
	return tgerr.Is(err,
		"AUTH_KEY_UNREGISTERED",
		"AUTH_KEY_INVALID",
		"SESSION_REVOKED",
		"SESSION_EXPIRED",
		"USER_DEACTIVATED",
	)
}
