package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jwebster45206/dungeon-bot/pkg/state"
)

// ErrPlayerNotFound is returned when no record exists for a chat.
var ErrPlayerNotFound = errors.New("player not found")

// SessionTTL bounds how long an abandoned registration wizard is kept.
const SessionTTL = time.Hour

// Storage defines the persistence operations of the bot:
// player records keyed by chat id and registration sessions keyed by (user, chat).
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Player operations. SavePlayer inserts or overwrites the whole record.
	SavePlayer(ctx context.Context, p *state.PlayerState) error
	LoadPlayer(ctx context.Context, chatID int64) (*state.PlayerState, error)
	DeletePlayer(ctx context.Context, chatID int64) error

	// Session operations. LoadSession returns nil, nil when no wizard is in progress.
	SaveSession(ctx context.Context, s *state.Session) error
	LoadSession(ctx context.Context, userID, chatID int64) (*state.Session, error)
	DeleteSession(ctx context.Context, userID, chatID int64) error
}
