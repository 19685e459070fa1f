package chat

import (
	"fmt"
	"strings"
)

const (
	ChatRoleUser   = "user"      // Player
	ChatRoleAgent  = "assistant" // Game master
	ChatRoleSystem = "system"    // Instructions
)

// ChatMessage represents a single chat message in the conversation.
// The shape follows the OpenAI-compatible chat completion API and is used
// both for the model request and for the persisted history.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Validate checks that the message carries a known role and some content.
func (m ChatMessage) Validate() error {
	switch m.Role {
	case ChatRoleUser, ChatRoleAgent, ChatRoleSystem:
	default:
		return fmt.Errorf("unknown chat role %q", m.Role)
	}
	if strings.TrimSpace(m.Content) == "" {
		return fmt.Errorf("message cannot be empty")
	}
	return nil
}

// Window returns the last limit messages of history, preserving order.
// A non-positive limit yields an empty window.
func Window(history []ChatMessage, limit int) []ChatMessage {
	if limit <= 0 || len(history) == 0 {
		return nil
	}
	if len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}

// Trim drops the oldest messages so that at most limit remain.
// The returned slice does not share its backing array with history.
func Trim(history []ChatMessage, limit int) []ChatMessage {
	w := Window(history, limit)
	out := make([]ChatMessage, len(w))
	copy(out, w)
	return out
}
