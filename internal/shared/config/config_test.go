package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/tgarchive/internal/shared/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_API_ID", "123456")
	t.Setenv("TELEGRAM_API_HASH", "abcdef0123456789")
	t.Setenv("TELEGRAM_PHONE", "+15551234567")
	t.Setenv("S3_REGION", "eu-west-1")
	t.Setenv("S3_BUCKET", "chat-archives")
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequiredEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 123456, cfg.Telegram.APIID)
	assert.Equal(t, "abcdef0123456789", cfg.Telegram.APIHash)
	assert.Equal(t, "+15551234567", cfg.Telegram.Phone)
	assert.Equal(t, "eu-west-1", cfg.S3.Region)
	assert.Equal(t, "chat-archives", cfg.S3.Bucket)

	// Defaults
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 100, cfg.Telegram.PageSize)
	assert.Equal(t, "tgarchive.session", cfg.Telegram.SessionFile)
	assert.False(t, cfg.Schedule.Enabled)
}

func TestLoadMissingCredentials(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequiredEnv(t)
	t.Setenv("TELEGRAM_API_HASH", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	setRequiredEnv(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("TELEGRAM_PAGE_SIZE", "50")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 50, cfg.Telegram.PageSize)
}
