package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
server:
  port: "5000"
  mode: debug
database:
  driver: sqlite
  path: data/test.db
jwt:
  secret: dev-secret
  expire_hours: 12
ai:
  model: gpt-test
chat:
  history_page_size: 5
cors:
  allowed_origins:
    - http://localhost:3000
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))
	return dir
}

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 12*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, "gpt-test", cfg.AI.Model)
	assert.Equal(t, 5, cfg.Chat.HistoryPageSize)
	assert.Equal(t, 50, cfg.Chat.HistoryMaxSize)
	assert.Equal(t, 30*time.Second, cfg.AI.Timeout())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Mail.Enabled())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("MAIL_HOST", "smtp.example.com")
	t.Setenv("MAIL_USER", "bot@example.com")

	cfg, err := LoadConfig(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "sk-test", cfg.AI.APIKey)
	assert.True(t, cfg.Mail.Enabled())
	assert.Equal(t, 587, cfg.Mail.Port)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, 600, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 30, cfg.RateLimit.GatewayMaxRequests)
	assert.Equal(t, "logs/app.log", cfg.Log.File)
}

func TestLoadConfigRejectsShortSecretInRelease(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "server:\n  mode: release\njwt:\n  secret: short\n"))
	assert.Error(t, err)
}
