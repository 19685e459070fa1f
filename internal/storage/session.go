package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/dungeon-bot/pkg/state"
	"github.com/jwebster45206/dungeon-bot/pkg/storage"
)

func sessionKey(userID, chatID int64) string {
	return fmt.Sprintf("%s%d:%d", sessionKeyPrefix, userID, chatID)
}

// SaveSession stores the wizard state, refreshing its TTL.
func (r *RedisStorage) SaveSession(ctx context.Context, s *state.Session) error {
	if s == nil {
		return errors.New("session cannot be nil")
	}
	s.UpdatedAt = time.Now()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(s.UserID, s.ChatID), data, storage.SessionTTL).Err(); err != nil {
		r.logger.Error("Failed to save session", "user_id", s.UserID, "chat_id", s.ChatID, "error", err)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadSession(ctx context.Context, userID, chatID int64) (*state.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(userID, chatID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var s state.Session
	if err := json.Unmarshal(data, &s); err != nil {
		r.logger.Warn("Discarding unreadable session", "user_id", userID, "chat_id", chatID, "error", err)
		return nil, nil
	}
	return &s, nil
}

func (r *RedisStorage) DeleteSession(ctx context.Context, userID, chatID int64) error {
	if err := r.client.Del(ctx, sessionKey(userID, chatID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
