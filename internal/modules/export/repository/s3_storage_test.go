package repository_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/tgarchive/internal/modules/export/domain"
	"github.com/avolkov/tgarchive/internal/modules/export/repository"
)

func TestObjectKey(t *testing.T) {
	at := time.Date(2024, 1, 15, 14, 30, 45, 0, time.UTC)
	assert.Equal(t, "telegram_alice_2024_01_15T14_30_45.json", repository.ObjectKey("alice", at))

	// Consecutive runs land on distinct keys.
	assert.NotEqual(t,
		repository.ObjectKey("alice", at),
		repository.ObjectKey("alice", at.Add(time.Second)),
	)
}

func TestObjectURL(t *testing.T) {
	url := repository.ObjectURL("chat-archives", "eu-central-1", "telegram_alice_2024_01_15T14_30_45.json")
	assert.Equal(t, "https://chat-archives.s3.eu-central-1.amazonaws.com/telegram_alice_2024_01_15T14_30_45.json", url)
}

func TestArchiveDocumentShape(t *testing.T) {
	window, err := domain.NewWindow("2024-01-01", "2024-01-31")
	require.NoError(t, err)

	archive := domain.NewArchive("alice", window, []domain.Message{
		{ID: 9, Date: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC), SenderID: 42, Text: "hello"},
	})

	data, err := json.Marshal(archive)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "alice", doc["identifier"])
	assert.Equal(t, map[string]any{"from": "2024-01-01", "to": "2024-01-31"}, doc["window"])
	assert.NotEmpty(t, doc["generated_at"])
	assert.EqualValues(t, 1, doc["message_count"])

	messages, ok := doc["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	first := messages[0].(map[string]any)
	assert.EqualValues(t, 9, first["message_id"])
	assert.EqualValues(t, 42, first["sender_id"])
	assert.Equal(t, "hello", first["message"])
}

func TestArchiveWithNoMessagesSerializesEmptyArray(t *testing.T) {
	archive := domain.NewArchive("quiet", domain.Window{}, nil)

	data, err := json.Marshal(archive)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	messages, ok := doc["messages"].([]any)
	require.True(t, ok)
	assert.Empty(t, messages)
	assert.EqualValues(t, 0, doc["message_count"])
}
