package storage

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/dungeon-bot/pkg/state"
	"github.com/jwebster45206/dungeon-bot/pkg/storage"
)

func setupTestRedis(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	rs, err := NewRedisStorage("redis://"+mr.Addr(), logger)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create redis storage: %v", err)
	}

	t.Cleanup(func() {
		_ = rs.Close()
		mr.Close()
	})
	return rs, mr
}

func testPlayer(chatID int64) *state.PlayerState {
	p := state.NewPlayerState(chatID, state.Profile{
		Name:       "Arden",
		Age:        27,
		Gender:     state.GenderFemale,
		Background: "Temple guard",
		Language:   state.LanguageEN,
	})
	p.Stats.Notes = []string{"Angered the guard"}
	p.PendingMessageIDs = []int{10, 11, 12}
	p.AppendExchange("Look around", "You see a door.")
	return p
}

func TestNewRedisStorage_BadURL(t *testing.T) {
	_, err := NewRedisStorage("redis://:bad:port/x", slog.Default())
	assert.Error(t, err)
}

func TestNewRedisStorage_BareAddress(t *testing.T) {
	mr := miniredis.RunT(t)
	rs, err := NewRedisStorage(mr.Addr(), slog.Default())
	require.NoError(t, err)
	defer rs.Close()

	assert.NoError(t, rs.Ping(context.Background()))
}

func TestRedisStorage_PlayerRoundTrip(t *testing.T) {
	rs, mr := setupTestRedis(t)
	ctx := context.Background()

	p := testPlayer(12345)
	require.NoError(t, rs.SavePlayer(ctx, p))
	assert.True(t, mr.Exists("player:12345"))
	assert.Equal(t, time.Duration(0), mr.TTL("player:12345"), "players must not expire")

	loaded, err := rs.LoadPlayer(ctx, 12345)
	require.NoError(t, err)
	assert.Equal(t, p.ChatID, loaded.ChatID)
	assert.Equal(t, p.Profile, loaded.Profile)
	assert.Equal(t, p.Stats, loaded.Stats)
	assert.Equal(t, p.History, loaded.History)
	assert.Equal(t, []int{10, 11, 12}, loaded.PendingMessageIDs)
}

func TestRedisStorage_LoadMissingPlayer(t *testing.T) {
	rs, _ := setupTestRedis(t)

	loaded, err := rs.LoadPlayer(context.Background(), 99)
	assert.Nil(t, loaded)
	assert.True(t, errors.Is(err, storage.ErrPlayerNotFound))
}

func TestRedisStorage_LoadCorruptPlayer(t *testing.T) {
	rs, mr := setupTestRedis(t)
	require.NoError(t, mr.Set("player:5", "{not json"))

	_, err := rs.LoadPlayer(context.Background(), 5)
	require.Error(t, err)
	assert.False(t, errors.Is(err, storage.ErrPlayerNotFound))
}

func TestRedisStorage_DeletePlayer(t *testing.T) {
	rs, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, rs.SavePlayer(ctx, testPlayer(1)))
	require.NoError(t, rs.DeletePlayer(ctx, 1))
	assert.False(t, mr.Exists("player:1"))

	// Deleting again is a no-op.
	assert.NoError(t, rs.DeletePlayer(ctx, 1))
}

func TestRedisStorage_Sessions(t *testing.T) {
	rs, mr := setupTestRedis(t)
	ctx := context.Background()

	got, err := rs.LoadSession(ctx, 1, 2)
	require.NoError(t, err)
	assert.Nil(t, got)

	s := state.NewSession(1, 2)
	s.Step = state.StepGender
	s.Profile.Name = "Mira"
	s.Profile.Age = 19
	require.NoError(t, rs.SaveSession(ctx, s))

	assert.Equal(t, storage.SessionTTL, mr.TTL("session:1:2"))

	got, err = rs.LoadSession(ctx, 1, 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, state.StepGender, got.Step)
	assert.Equal(t, "Mira", got.Profile.Name)
	assert.Equal(t, 19, got.Profile.Age)

	mr.FastForward(storage.SessionTTL + time.Second)
	got, err = rs.LoadSession(ctx, 1, 2)
	require.NoError(t, err)
	assert.Nil(t, got, "session should expire")

	require.NoError(t, rs.SaveSession(ctx, s))
	require.NoError(t, rs.DeleteSession(ctx, 1, 2))
	assert.False(t, mr.Exists("session:1:2"))
}

func TestRedisStorage_WaitForConnection(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rs, err := NewRedisStorage(mr.Addr(), slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
	require.NoError(t, err)
	defer rs.Close()

	require.NoError(t, rs.waitForConnection(context.Background(), 3, 10*time.Millisecond))

	mr.Close()
	err = rs.waitForConnection(context.Background(), 2, 10*time.Millisecond)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = rs.waitForConnection(ctx, 5, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}
