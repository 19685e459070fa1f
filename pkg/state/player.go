package state

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jwebster45206/dungeon-bot/pkg/chat"
)

const (
	MaxHP              = 100
	XPPerLevel         = 100
	MaxNotes           = 30
	MaxHistory         = 20
	PromptHistoryLimit = 10

	// MaxDeltaMagnitude bounds one hp or xp change taken from model output.
	MaxDeltaMagnitude = 1_000_000
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender accepts the canonical values only.
func ParseGender(s string) (Gender, error) {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case GenderMale:
		return GenderMale, nil
	case GenderFemale:
		return GenderFemale, nil
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

type Language string

const (
	LanguageRU Language = "ru"
	LanguageEN Language = "en"
)

// DefaultLanguage is used whenever a stored or requested language is unknown.
const DefaultLanguage = LanguageRU

// ParseLanguage maps a language code to a supported Language, falling back to DefaultLanguage.
func ParseLanguage(s string) Language {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LanguageEN:
		return LanguageEN
	case LanguageRU:
		return LanguageRU
	}
	return DefaultLanguage
}

// Stats holds the mutable game statistics of a player.
type Stats struct {
	HP        int      `json:"hp"`
	XP        int      `json:"xp"`
	Level     int      `json:"level"`
	Spells    []string `json:"spells"`
	Inventory []string `json:"inventory"`
	Notes     []string `json:"notes"` // long-term memory digest, FIFO bounded by MaxNotes
}

// NewStats returns the starting stats of a freshly registered hero.
func NewStats() Stats {
	return Stats{
		HP:        MaxHP,
		XP:        0,
		Level:     1,
		Spells:    make([]string, 0),
		Inventory: make([]string, 0),
		Notes:     make([]string, 0),
	}
}

// LevelForXP derives the level from cumulative experience.
func LevelForXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// Profile is the character sheet collected at registration.
type Profile struct {
	Name       string   `json:"name"`
	Age        int      `json:"age"`
	Gender     Gender   `json:"gender"`
	Background string   `json:"background"`
	Language   Language `json:"language"`
}

// Validate checks the registration fields.
func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if p.Age <= 0 {
		return fmt.Errorf("age must be positive, got %d", p.Age)
	}
	if _, err := ParseGender(string(p.Gender)); err != nil {
		return err
	}
	return nil
}

// PlayerState is the durable record of one chat identity: profile, stats,
// the model's working memory and the messages shown on screen.
type PlayerState struct {
	ChatID int64 `json:"chat_id"`
	Profile
	Stats             Stats              `json:"stats"`
	History           []chat.ChatMessage `json:"history"`
	PendingMessageIDs []int              `json:"pending_message_ids"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// NewPlayerState creates a player with starting stats and empty history.
func NewPlayerState(chatID int64, profile Profile) *PlayerState {
	now := time.Now()
	profile.Language = ParseLanguage(string(profile.Language))
	return &PlayerState{
		ChatID:            chatID,
		Profile:           profile,
		Stats:             NewStats(),
		History:           make([]chat.ChatMessage, 0),
		PendingMessageIDs: make([]int, 0),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Reregister overwrites the profile and resets stats and history.
// Pending message ids are kept so the next turn can still clear the old screen.
func (ps *PlayerState) Reregister(profile Profile) {
	profile.Language = ParseLanguage(string(profile.Language))
	ps.Profile = profile
	ps.Stats = NewStats()
	ps.History = make([]chat.ChatMessage, 0)
}

// AppendExchange records one user utterance and the raw model response,
// trimming history to MaxHistory.
func (ps *PlayerState) AppendExchange(userMessage, response string) {
	ps.History = append(ps.History,
		chat.ChatMessage{Role: chat.ChatRoleUser, Content: userMessage},
		chat.ChatMessage{Role: chat.ChatRoleAgent, Content: response},
	)
	if len(ps.History) > MaxHistory {
		ps.History = chat.Trim(ps.History, MaxHistory)
	}
}

// DeepCopy returns an independent copy of the player state.
func (ps *PlayerState) DeepCopy() (*PlayerState, error) {
	data, err := json.Marshal(ps)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal player state: %w", err)
	}
	var cp PlayerState
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player state: %w", err)
	}
	return &cp, nil
}
