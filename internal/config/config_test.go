package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rambo1111/sous-chef-bot/internal/config"
)

func TestLoadConfig_FromEnvOnly(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "123456:test-token")
	t.Setenv("BOT_GEMINI_API_KEY", "test-api-key")

	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "123456:test-token", cfg.Telegram.Token)
	assert.Equal(t, "test-api-key", cfg.Gemini.APIKey)

	// Defaults fill in everything else.
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.ModelName)
	assert.Equal(t, 2*time.Minute, cfg.Gemini.Timeout)
	assert.Equal(t, "souschef.db", cfg.Database.Path)
	assert.NotEmpty(t, cfg.Messages.Welcome)
	assert.NotEmpty(t, cfg.Messages.GenerationError)

	task, ok := cfg.Scheduler.Tasks["store_maintenance"]
	require.True(t, ok)
	assert.True(t, task.Enabled)
	assert.NotEmpty(t, task.Schedule)
}

func TestLoadConfig_FromFile(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "")
	t.Setenv("BOT_GEMINI_API_KEY", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
telegram:
  token: file-token
gemini:
  api_key: file-key
  model: gemini-2.0-pro
  timeout: 30s
logger:
  level: debug
  json: false
database:
  path: /tmp/test-souschef.db
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.Telegram.Token)
	assert.Equal(t, "file-key", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-2.0-pro", cfg.Gemini.ModelName)
	assert.Equal(t, 30*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.False(t, cfg.Logger.JSON)
	assert.Equal(t, "/tmp/test-souschef.db", cfg.Database.Path)
}

func TestLoadConfig_MissingToken(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "")
	t.Setenv("BOT_GEMINI_API_KEY", "test-api-key")

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestLoadConfig_InvalidLevel(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "123456:test-token")
	t.Setenv("BOT_GEMINI_API_KEY", "test-api-key")
	t.Setenv("BOT_LOGGER_LEVEL", "loud")

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
