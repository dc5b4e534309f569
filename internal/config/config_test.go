package config_test

import (
	"testing"
	"time"

	"websummarizer/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("HTTP_ADDR", ":8080")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.BackendOpenAI, cfg.Backend)
	assert.Equal(t, config.FetchStatic, cfg.FetchMode)
	assert.Equal(t, "db.sqlite", cfg.DBPath)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, "http://localhost:11434/api/chat", cfg.OllamaURL)
	assert.Equal(t, 3*time.Second, cfg.RenderSettle)
	assert.Equal(t, 720*time.Hour, cfg.HistoryRetention)
	assert.Zero(t, cfg.SummaryCacheSize)
	assert.Equal(t, time.Hour, cfg.SummaryCacheTTL)
}

func TestLoadSummaryCacheOptIn(t *testing.T) {
	t.Setenv("BACKEND", config.BackendLocal)
	t.Setenv("HTTP_ADDR", ":8080")
	t.Setenv("SUMMARY_CACHE_SIZE", "64")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.SummaryCacheSize)
}

func TestLoadAllowedUsers(t *testing.T) {
	t.Setenv("BACKEND", config.BackendOllama)
	t.Setenv("ALLOWED_USERS", "1,2,3")
	t.Setenv("TOKEN", "123:abc")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3}, cfg.AllowedUsers)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("BACKEND", "gemini")
	t.Setenv("HTTP_ADDR", ":8080")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoadRejectsUnknownFetchMode(t *testing.T) {
	t.Setenv("BACKEND", config.BackendLocal)
	t.Setenv("FETCH_MODE", "telepathy")
	t.Setenv("HTTP_ADDR", ":8080")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoadRequiresOpenAIKey(t *testing.T) {
	t.Setenv("BACKEND", config.BackendOpenAI)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("HTTP_ADDR", ":8080")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoadRequiresFrontEnd(t *testing.T) {
	t.Setenv("BACKEND", config.BackendLocal)
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("TOKEN", "")

	_, err := config.Load()
	require.Error(t, err)
}

func TestCheckOpenAIKey(t *testing.T) {
	assert.Empty(t, config.CheckOpenAIKey("sk-proj-abc"))
	assert.Equal(t, []string{"no API key was found"}, config.CheckOpenAIKey(""))
	assert.Equal(t, []string{"API key does not start with sk-"}, config.CheckOpenAIKey("abc"))
	assert.Equal(t, []string{"API key has whitespace at the start or end"}, config.CheckOpenAIKey(" sk-abc\t"))
}
