package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/jwebster45206/dungeon-bot/internal/config"
	"github.com/jwebster45206/dungeon-bot/internal/logger"
	"github.com/jwebster45206/dungeon-bot/internal/storage"
	pkgstorage "github.com/jwebster45206/dungeon-bot/pkg/storage"
)

var playerTimeout time.Duration

var playerCmd = &cobra.Command{
	Use:   "player",
	Short: "Inspect or erase stored players",
}

var playerShowCmd = &cobra.Command{
	Use:   "show <chat-id>",
	Short: "Print a player's stored record as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayerShow,
}

var playerResetCmd = &cobra.Command{
	Use:   "reset <chat-id>",
	Short: "Delete a player's stored record",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayerReset,
}

func init() {
	playerCmd.PersistentFlags().DurationVar(&playerTimeout, "timeout", 10*time.Second, "Redis timeout")
	playerCmd.AddCommand(playerShowCmd)
	playerCmd.AddCommand(playerResetCmd)
}

// withStore parses the chat id and runs fn against Redis.
func withStore(arg string, fn func(ctx context.Context, store *storage.RedisStorage, chatID int64) error) error {
	chatID, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", arg, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.Setup(cfg)

	store, err := storage.NewRedisStorage(cfg.RedisURL, log)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), playerTimeout)
	defer cancel()
	return fn(ctx, store, chatID)
}

func runPlayerShow(cmd *cobra.Command, args []string) error {
	return withStore(args[0], func(ctx context.Context, store *storage.RedisStorage, chatID int64) error {
		p, err := store.LoadPlayer(ctx, chatID)
		if errors.Is(err, pkgstorage.ErrPlayerNotFound) {
			return fmt.Errorf("no player for chat %d", chatID)
		}
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode player: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	})
}

func runPlayerReset(cmd *cobra.Command, args []string) error {
	return withStore(args[0], func(ctx context.Context, store *storage.RedisStorage, chatID int64) error {
		if err := store.DeletePlayer(ctx, chatID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Player %d erased\n", chatID)
		return nil
	})
}
