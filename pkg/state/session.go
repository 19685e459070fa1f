package state

import (
	"slices"
	"time"
)

// WizardStep is the current question of the registration wizard.
type WizardStep string

const (
	StepLanguage   WizardStep = "language"
	StepName       WizardStep = "name"
	StepAge        WizardStep = "age"
	StepGender     WizardStep = "gender"
	StepBackground WizardStep = "background"
)

// Session holds the answers collected so far by the registration wizard.
type Session struct {
	UserID  int64      `json:"user_id"`
	ChatID  int64      `json:"chat_id"`
	Step    WizardStep `json:"step"`
	Profile Profile    `json:"profile"`
	// MessageIDs are the wizard's questions and the player's answers,
	// cleared from the screen when the first turn starts.
	MessageIDs []int     `json:"message_ids,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewSession starts a wizard at the language question.
func NewSession(userID, chatID int64) *Session {
	return &Session{
		UserID:    userID,
		ChatID:    chatID,
		Step:      StepLanguage,
		Profile:   Profile{Language: DefaultLanguage},
		UpdatedAt: time.Now(),
	}
}

// Track records shown message ids, skipping zero and repeated ids.
func (s *Session) Track(ids ...int) {
	for _, id := range ids {
		if id <= 0 || slices.Contains(s.MessageIDs, id) {
			continue
		}
		s.MessageIDs = append(s.MessageIDs, id)
	}
}
