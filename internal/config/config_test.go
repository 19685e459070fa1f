package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "https://api.deepseek.com", cfg.DeepSeekBaseURL)
	assert.Equal(t, "deepseek-chat", cfg.ModelName)
	assert.InDelta(t, 0.7, cfg.LLMTemperature, 0.0001)
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, 1500*time.Millisecond, cfg.ParagraphDelay)
	assert.Equal(t, 3500*time.Millisecond, cfg.DiceDelay)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warning")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("PARAGRAPH_DELAY", "0s")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.LLMTimeout)
	assert.Equal(t, time.Duration(0), cfg.ParagraphDelay)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MODEL_NAME=deepseek-reasoner\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("MODEL_NAME") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "deepseek-reasoner", cfg.ModelName)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("DICE_DELAY", "soon")
		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "parse env:"))
	})

	t.Run("zero timeout", func(t *testing.T) {
		t.Setenv("LLM_TIMEOUT", "0s")
		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, err)
	})
}

func TestValidateServe(t *testing.T) {
	cfg := &Config{}
	err := cfg.ValidateServe()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BOT_TOKEN")
	assert.Contains(t, err.Error(), "DEEPSEEK_API_KEY")

	cfg.BotToken = "t"
	cfg.DeepSeekAPIKey = "k"
	assert.NoError(t, cfg.ValidateServe())
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
