package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/jwebster45206/dungeon-bot/pkg/state"
)

// MockStorage is an in-memory implementation of Storage for testing and the console.
// Records are kept as JSON so callers never share memory with stored state.
type MockStorage struct {
	mu        sync.RWMutex
	players   map[int64][]byte
	sessions  map[string][]byte
	pingError error
	saveError error
	saves     int
}

// Ensure MockStorage implements Storage interface
var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates a new mock storage
func NewMockStorage() *MockStorage {
	return &MockStorage{
		players:  make(map[int64][]byte),
		sessions: make(map[string][]byte),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockStorage) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetSaveError makes every subsequent SavePlayer fail with err.
func (m *MockStorage) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveError = err
}

// SaveCount reports how many player saves succeeded.
func (m *MockStorage) SaveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// RawPlayer returns the stored JSON of a player, or nil.
func (m *MockStorage) RawPlayer(chatID int64) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.players[chatID]
	if !ok {
		return nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out
}

// Ping mocks storage ping
func (m *MockStorage) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close mocks storage close
func (m *MockStorage) Close() error {
	return nil
}

// SavePlayer stores a snapshot of the player.
func (m *MockStorage) SavePlayer(ctx context.Context, p *state.PlayerState) error {
	if p == nil {
		return errors.New("player cannot be nil")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return m.saveError
	}
	m.players[p.ChatID] = data
	m.saves++
	return nil
}

// LoadPlayer returns a fresh copy of the stored player.
func (m *MockStorage) LoadPlayer(ctx context.Context, chatID int64) (*state.PlayerState, error) {
	m.mu.RLock()
	data, ok := m.players[chatID]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrPlayerNotFound
	}
	var p state.PlayerState
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player: %w", err)
	}
	return &p, nil
}

// DeletePlayer removes a player; deleting a missing player is not an error.
func (m *MockStorage) DeletePlayer(ctx context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.players, chatID)
	return nil
}

func sessionKey(userID, chatID int64) string {
	return fmt.Sprintf("%d:%d", userID, chatID)
}

// SaveSession stores a snapshot of the wizard session.
func (m *MockStorage) SaveSession(ctx context.Context, s *state.Session) error {
	if s == nil {
		return errors.New("session cannot be nil")
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionKey(s.UserID, s.ChatID)] = data
	return nil
}

// LoadSession returns nil, nil when no session exists.
func (m *MockStorage) LoadSession(ctx context.Context, userID, chatID int64) (*state.Session, error) {
	m.mu.RLock()
	data, ok := m.sessions[sessionKey(userID, chatID)]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var s state.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}

// DeleteSession removes a wizard session.
func (m *MockStorage) DeleteSession(ctx context.Context, userID, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionKey(userID, chatID))
	return nil
}
