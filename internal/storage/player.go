package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/dungeon-bot/pkg/state"
	"github.com/jwebster45206/dungeon-bot/pkg/storage"
)

func playerKey(chatID int64) string {
	return playerKeyPrefix + strconv.FormatInt(chatID, 10)
}

// SavePlayer overwrites the whole player record. Players do not expire.
func (r *RedisStorage) SavePlayer(ctx context.Context, p *state.PlayerState) error {
	if p == nil {
		return errors.New("player cannot be nil")
	}
	p.UpdatedAt = time.Now()

	data, err := json.Marshal(p)
	if err != nil {
		r.logger.Error("Failed to marshal player", "chat_id", p.ChatID, "error", err)
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	if err := r.client.Set(ctx, playerKey(p.ChatID), data, 0).Err(); err != nil {
		r.logger.Error("Failed to save player", "chat_id", p.ChatID, "error", err)
		return fmt.Errorf("failed to save player: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadPlayer(ctx context.Context, chatID int64) (*state.PlayerState, error) {
	data, err := r.client.Get(ctx, playerKey(chatID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrPlayerNotFound
		}
		r.logger.Error("Failed to load player", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to load player: %w", err)
	}
	if len(data) == 0 {
		return nil, storage.ErrPlayerNotFound
	}

	var p state.PlayerState
	if err := json.Unmarshal(data, &p); err != nil {
		r.logger.Error("Failed to unmarshal player", "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("failed to unmarshal player: %w", err)
	}
	return &p, nil
}

func (r *RedisStorage) DeletePlayer(ctx context.Context, chatID int64) error {
	if err := r.client.Del(ctx, playerKey(chatID)).Err(); err != nil {
		r.logger.Error("Failed to delete player", "chat_id", chatID, "error", err)
		return fmt.Errorf("failed to delete player: %w", err)
	}
	return nil
}
