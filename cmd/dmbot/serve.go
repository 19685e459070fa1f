package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwebster45206/dungeon-bot/internal/bot"
	"github.com/jwebster45206/dungeon-bot/internal/config"
	"github.com/jwebster45206/dungeon-bot/internal/handlers"
	"github.com/jwebster45206/dungeon-bot/internal/logger"
	"github.com/jwebster45206/dungeon-bot/internal/transport"
	"github.com/jwebster45206/dungeon-bot/internal/turn"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot",
	Long:  `Run the bot against the Telegram Bot API, storing players in Redis and exposing /health and /metrics.`,
	RunE:  runServe,
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.ValidateServe(); err != nil {
		return err
	}
	log := logger.Setup(cfg)

	log.Info("Starting dungeon bot",
		"environment", cfg.Environment,
		"model", cfg.ModelName,
		"metrics_addr", cfg.MetricsAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := connectRedis(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing storage", "error", err)
		}
	}()

	llm := newLLM(ctx, cfg, log)

	tg, err := transport.NewTelegram(cfg.BotToken, log)
	if err != nil {
		return err
	}

	locker := turn.NewRedisLocker(store.Client(), cfg.TurnLockTTL, log)
	engine := turn.NewEngine(llm, store, tg, locker, engineOptions(cfg), log)
	b := bot.New(engine, store, tg, log)

	opsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           handlers.NewOpsMux(store, log),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("Ops server listening", "addr", cfg.MetricsAddr)
		if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Ops server failed", "error", err)
		}
	}()

	err = b.Run(ctx, tg.Updates(ctx))
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if shutdownErr := opsServer.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Error("Ops server shutdown failed", "error", shutdownErr)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("bot stopped: %w", err)
	}
	return nil
}
