package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/tgarchive/internal/modules/export/domain"
	exportService "github.com/avolkov/tgarchive/internal/modules/export/service"
	"github.com/avolkov/tgarchive/internal/shared/config"
	apperrors "github.com/avolkov/tgarchive/internal/shared/errors"
	transport "github.com/avolkov/tgarchive/internal/transport/http"
)

type stubGateway struct {
	histories map[string][]domain.Message
}

func (g *stubGateway) History(_ context.Context, identifier string, _ domain.Window) (domain.Stream, error) {
	messages, ok := g.histories[identifier]
	if !ok {
		return nil, &apperrors.ChatNotFoundError{Identifier: identifier}
	}
	return domain.NewSliceStream(messages), nil
}

type stubRepo struct {
	stores int
}

func (r *stubRepo) EnsureBucket(_ context.Context) error { return nil }

func (r *stubRepo) Store(_ context.Context, archive *domain.Archive) (string, error) {
	r.stores++
	return fmt.Sprintf("https://bucket.s3.us-east-1.amazonaws.com/telegram_%s_%d.json", archive.Identifier, r.stores), nil
}

func newTestServer(t *testing.T, gateway *stubGateway) http.Handler {
	t.Helper()
	cfg := &config.Config{HTTPPort: "0"}
	svc := exportService.New(gateway, &stubRepo{})
	return transport.New(cfg, svc).Handler()
}

func multipartBody(t *testing.T, identifiers string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "usernames.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte(identifiers))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHealth(t *testing.T) {
	handler := newTestServer(t, &stubGateway{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"telegram-message-archiver"}`, rec.Body.String())
}

func TestProcessMessages(t *testing.T) {
	day := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	gateway := &stubGateway{histories: map[string][]domain.Message{
		"alice": {
			{ID: 2, Date: day.Add(time.Hour), SenderID: 1, Text: "hi again"},
			{ID: 1, Date: day, SenderID: 1, Text: "hi"},
		},
	}}
	handler := newTestServer(t, gateway)

	body, contentType := multipartBody(t, "alice\nghost_user\n")
	req := httptest.NewRequest(http.MethodPost, "/process-messages?from_date=2024-01-01&to_date=2024-01-31", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp struct {
		Summary []exportService.Row `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Summary, 2)

	assert.Equal(t, "alice", resp.Summary[0].Identifier)
	assert.Equal(t, exportService.StatusSuccess, resp.Summary[0].Status)
	require.NotNil(t, resp.Summary[0].MessageCount)
	assert.Equal(t, 2, *resp.Summary[0].MessageCount)
	assert.NotEmpty(t, resp.Summary[0].ArchiveLocator)

	assert.Equal(t, "ghost_user", resp.Summary[1].Identifier)
	assert.Equal(t, exportService.StatusFailed, resp.Summary[1].Status)
	assert.Equal(t, "Chat 'ghost_user' not found or inaccessible.", resp.Summary[1].Error)
}

func TestProcessMessagesBadDates(t *testing.T) {
	handler := newTestServer(t, &stubGateway{})

	cases := []struct {
		name  string
		query string
	}{
		{"bad format", "?from_date=01-01-2024"},
		{"from after to", "?from_date=2024-02-01&to_date=2024-01-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, contentType := multipartBody(t, "alice\n")
			req := httptest.NewRequest(http.MethodPost, "/process-messages"+tc.query, body)
			req.Header.Set("Content-Type", contentType)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestProcessMessagesMissingFile(t *testing.T) {
	handler := newTestServer(t, &stubGateway{})

	req := httptest.NewRequest(http.MethodPost, "/process-messages", bytes.NewReader(nil))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
