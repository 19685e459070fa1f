package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/dungeon-bot/internal/config"
	"github.com/jwebster45206/dungeon-bot/internal/services"
	"github.com/jwebster45206/dungeon-bot/internal/storage"
	"github.com/jwebster45206/dungeon-bot/internal/turn"
)

const modelInitTimeout = 30 * time.Second

func engineOptions(cfg *config.Config) turn.Options {
	opts := turn.DefaultOptions()
	opts.ParagraphDelay = cfg.ParagraphDelay
	opts.DiceDelay = cfg.DiceDelay
	opts.LLMTimeout = cfg.LLMTimeout
	return opts
}

// connectRedis opens the player store and waits until Redis answers.
func connectRedis(ctx context.Context, cfg *config.Config, log *slog.Logger) (*storage.RedisStorage, error) {
	store, err := storage.NewRedisStorage(cfg.RedisURL, log)
	if err != nil {
		return nil, err
	}
	if err := store.WaitForConnection(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Info("Storage service initialized successfully")
	return store, nil
}

// newLLM builds the DeepSeek client. A failed model check is logged, not fatal:
// some compatible endpoints do not list models.
func newLLM(ctx context.Context, cfg *config.Config, log *slog.Logger) services.LLMService {
	llm := services.NewDeepSeekService(cfg.DeepSeekAPIKey, cfg.DeepSeekBaseURL, cfg.ModelName, cfg.LLMTemperature, log)

	initCtx, cancel := context.WithTimeout(ctx, modelInitTimeout)
	defer cancel()
	if err := llm.InitModel(initCtx, cfg.ModelName); err != nil {
		log.Warn("Could not verify model", "error", err, "model", cfg.ModelName)
	} else {
		log.Info("LLM service initialized successfully", "model", cfg.ModelName)
	}
	return llm
}
