package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"TELEGRAM_BOT_TOKEN": "123:abc",
		"POSTGRES_PASSWORD":  "pw",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres://avbot:pw@db:5432/avbot?sslmode=disable", cfg.DatabaseURL)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, 2.0, cfg.FetchRPS)
	assert.Equal(t, 20*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 60*time.Second, cfg.TaskTimeout)
	assert.Equal(t, 2*time.Second, cfg.RetryDelay)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, 5*time.Minute, cfg.CacheSearchTTL)
	assert.Equal(t, 30*time.Minute, cfg.CacheMediaTTL)
	assert.Zero(t, cfg.QueryRetention)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogPretty)
	assert.Equal(t, "ru", cfg.DefaultLang)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"TELEGRAM_BOT_TOKEN": "t",
		"DATABASE_URL":       "postgres://u:p@pg:6543/x",
		"REDIS_URL":          "redis://cache:6379/1",
		"WORKERS":            "8",
		"RETRY_DELAY":        "500ms",
		"MAX_RETRIES":        "0",
		"FETCH_RPS":          "0.5",
		"QUERY_RETENTION":    "720h",
		"LOG_PRETTY":         "true",
		"DEFAULT_LANG":       "en",
	}))
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@pg:6543/x", cfg.DatabaseURL)
	assert.Equal(t, "redis://cache:6379/1", cfg.RedisURL)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryDelay)
	assert.Zero(t, cfg.MaxRetries)
	assert.Equal(t, 0.5, cfg.FetchRPS)
	assert.Equal(t, 720*time.Hour, cfg.QueryRetention)
	assert.True(t, cfg.LogPretty)
	assert.Equal(t, "en", cfg.DefaultLang)
}

func TestFromEnv_Errors(t *testing.T) {
	_, err := FromEnv(envOf(nil))
	assert.ErrorContains(t, err, "TELEGRAM_BOT_TOKEN")

	cases := map[string]string{
		"WORKERS":      "many",
		"TASK_TIMEOUT": "soon",
		"FETCH_RPS":    "fast",
		"MAX_RETRIES":  "-1",
	}
	for k, v := range cases {
		_, err := FromEnv(envOf(map[string]string{"TELEGRAM_BOT_TOKEN": "t", k: v}))
		assert.ErrorContains(t, err, k, k)
	}
}

func TestSafeDSN(t *testing.T) {
	assert.Equal(t, "host=pg port=5432 db=avbot user=bot", SafeDSN("postgres://bot:secret@pg:5432/avbot"))
	assert.Equal(t, "host=pg db=avbot user=bot", SafeDSN("postgres://bot:secret@pg/avbot"))
}

func TestLoad_ReturnsError(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("WORKERS", "many")

	cfg, err := Load()
	assert.Nil(t, cfg)
	assert.ErrorContains(t, err, "TELEGRAM_BOT_TOKEN")

	t.Setenv("TELEGRAM_BOT_TOKEN", "t")
	_, err = Load()
	assert.ErrorContains(t, err, "WORKERS")
}
