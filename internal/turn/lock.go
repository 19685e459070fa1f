package turn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrBusy is returned when a turn for the same chat is already in flight.
var ErrBusy = errors.New("turn already in progress")

// Locker provides per-chat mutual exclusion. Acquire never blocks waiting
// for the holder; it fails fast with ErrBusy.
type Locker interface {
	Acquire(ctx context.Context, chatID int64) (release func(), err error)
}

// MemoryLocker is a keyed mutex for a single process.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[int64]struct{}
}

var _ Locker = (*MemoryLocker)(nil)

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[int64]struct{})}
}

func (l *MemoryLocker) Acquire(ctx context.Context, chatID int64) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[chatID]; ok {
		return nil, ErrBusy
	}
	l.held[chatID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, chatID)
			l.mu.Unlock()
		})
	}, nil
}

// releaseScript only deletes the lock if we still own it.
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// RedisLocker shares turn locks between bot replicas. The TTL bounds how long
// a crashed holder can block its chat.
type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ Locker = (*RedisLocker)(nil)

func NewRedisLocker(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisLocker {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLocker{client: client, ttl: ttl, logger: logger}
}

func lockKey(chatID int64) string {
	return "turn-lock:" + strconv.FormatInt(chatID, 10)
}

func (l *RedisLocker) Acquire(ctx context.Context, chatID int64) (func(), error) {
	key := lockKey(chatID)
	owner := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, owner, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire turn lock: %w", err)
	}
	if !ok {
		return nil, ErrBusy
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			if err := releaseScript.Run(context.Background(), l.client, []string{key}, owner).Err(); err != nil {
				l.logger.Error("Failed to release turn lock", "error", err, "chat_id", chatID)
			}
		})
	}, nil
}
