package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment  string     `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelName string     `env:"LOG_LEVEL" envDefault:"info"`
	LogLevel     slog.Level `env:"-"`

	BotToken string `env:"BOT_TOKEN"`

	DeepSeekAPIKey  string        `env:"DEEPSEEK_API_KEY"`
	DeepSeekBaseURL string        `env:"DEEPSEEK_BASE_URL" envDefault:"https://api.deepseek.com"`
	ModelName       string        `env:"MODEL_NAME" envDefault:"deepseek-chat"`
	LLMTemperature  float32       `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	LLMTimeout      time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`

	RedisURL    string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	MetricsAddr string `env:"METRICS_ADDR" envDefault:":9090"`

	ParagraphDelay time.Duration `env:"PARAGRAPH_DELAY" envDefault:"1500ms"`
	DiceDelay      time.Duration `env:"DICE_DELAY" envDefault:"3500ms"`
	TurnLockTTL    time.Duration `env:"TURN_LOCK_TTL" envDefault:"5m"`
}

// Load reads an optional .env file, then the process environment.
// Variables already set in the environment win over .env entries.
func Load(dotenvFiles ...string) (*Config, error) {
	_ = godotenv.Load(dotenvFiles...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)

	if cfg.LLMTimeout <= 0 {
		return nil, fmt.Errorf("LLM_TIMEOUT must be positive, got %s", cfg.LLMTimeout)
	}
	if cfg.ParagraphDelay < 0 || cfg.DiceDelay < 0 {
		return nil, errors.New("PARAGRAPH_DELAY and DICE_DELAY cannot be negative")
	}
	return &cfg, nil
}

// ValidateServe checks the settings required to run the Telegram bot.
func (c *Config) ValidateServe() error {
	var errs []error
	if c.BotToken == "" {
		errs = append(errs, errors.New("BOT_TOKEN is required"))
	}
	if c.DeepSeekAPIKey == "" {
		errs = append(errs, errors.New("DEEPSEEK_API_KEY is required"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
