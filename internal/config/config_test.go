package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("PREFERRED_THEME", "")
	t.Setenv("NOTIFICATION_TTL", "")
	t.Setenv("MAX_UPLOAD_BYTES", "")
	return dir
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultLLMProvider, cfg.LLMProvider)
	assert.Equal(t, DefaultLLMModel, cfg.LLMModel)
	assert.Equal(t, "light", cfg.PreferredTheme)
	assert.Equal(t, 5*time.Second, cfg.NotificationTTL)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.DirExists(t, cfg.DataDir)
}

func TestLoadOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("GOOGLE_API_KEY", "g-key")
	t.Setenv("NOTIFICATION_TTL", "250ms")
	t.Setenv("PREFERRED_THEME", "dark")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "g-key", cfg.APIKeyFor("google"))
	assert.Equal(t, 250*time.Millisecond, cfg.NotificationTTL)
	assert.Equal(t, "dark", cfg.PreferredTheme)
}

func TestLoadRejectsUnknownTheme(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PREFERRED_THEME", "sepia")

	_, err := Load()
	assert.Error(t, err)
}

func TestInitConfigKeepsSavedProviderAndHidesKeys(t *testing.T) {
	dir := setBaseEnv(t)
	t.Setenv("GEMINI_API_KEY", "secret")
	dataDir := filepath.Join(dir, "data")

	require.NoError(t, InitConfig(dataDir))
	require.NoError(t, UpdateLLMConfig("anthropic", map[string]string{"default_model": "claude-sonnet-4-5"}))

	raw, err := os.ReadFile(filepath.Join(dataDir, "config.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")

	require.NoError(t, InitConfig(dataDir))
	cfg := GetCurrentConfig()
	assert.Equal(t, "anthropic", cfg.LLMProvider)
	assert.Equal(t, "claude-sonnet-4-5", cfg.Model())
	assert.Equal(t, "secret", cfg.APIKey("gemini"))
}
