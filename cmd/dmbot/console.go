package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jwebster45206/dungeon-bot/internal/bot"
	"github.com/jwebster45206/dungeon-bot/internal/config"
	"github.com/jwebster45206/dungeon-bot/internal/logger"
	"github.com/jwebster45206/dungeon-bot/internal/transport"
	"github.com/jwebster45206/dungeon-bot/internal/turn"
	pkgstorage "github.com/jwebster45206/dungeon-bot/pkg/storage"
)

var (
	consoleUseRedis bool
	consoleWidth    int
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Play in the terminal",
	Long: `Play a local game in the terminal. Type /start to create a hero,
free text to act, or the number of a listed choice to press it.`,
	RunE: runConsole,
}

func init() {
	consoleCmd.Flags().BoolVar(&consoleUseRedis, "redis", false, "Persist the hero in Redis instead of memory")
	consoleCmd.Flags().IntVar(&consoleWidth, "width", 80, "Wrap width for narration")
}

func runConsole(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.DeepSeekAPIKey == "" {
		return errors.New("DEEPSEEK_API_KEY is required")
	}
	// Keep logs off the play area unless asked for.
	if cfg.LogLevelName == "info" {
		cfg.LogLevel = slog.LevelWarn
	}
	log := logger.Setup(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var store pkgstorage.Storage = pkgstorage.NewMockStorage()
	if consoleUseRedis {
		rs, err := connectRedis(ctx, cfg, log)
		if err != nil {
			return err
		}
		store = rs
	}
	defer func() { _ = store.Close() }()

	llm := newLLM(ctx, cfg, log)
	console := transport.NewConsole(cmd.OutOrStdout(), consoleWidth)
	engine := turn.NewEngine(llm, store, console, turn.NewMemoryLocker(), engineOptions(cfg), log)
	b := bot.New(engine, store, console, log)

	fmt.Fprintln(cmd.OutOrStdout(), "Type /start to begin. Ctrl+C to quit.")
	err = b.Run(ctx, console.Updates(ctx, cmd.InOrStdin()))
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
