package prompts

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/dungeon-bot/pkg/chat"
	"github.com/jwebster45206/dungeon-bot/pkg/state"
)

// Builder constructs chat messages for LLM interaction using a fluent interface.
// It never mutates the player it is given.
type Builder struct {
	player       *state.PlayerState
	userMessage  string
	historyLimit int
	messages     []chat.ChatMessage
}

// New creates a new prompt builder with default settings.
func New() *Builder {
	return &Builder{
		historyLimit: state.PromptHistoryLimit,
		messages:     make([]chat.ChatMessage, 0),
	}
}

// WithPlayer sets the player whose profile and history shape the prompt.
func (b *Builder) WithPlayer(p *state.PlayerState) *Builder {
	b.player = p
	return b
}

// WithUserMessage sets the latest player utterance.
func (b *Builder) WithUserMessage(message string) *Builder {
	b.userMessage = message
	return b
}

// WithHistoryLimit sets the chat history window size.
func (b *Builder) WithHistoryLimit(limit int) *Builder {
	b.historyLimit = limit
	return b
}

// Build constructs the message array: system prompt, windowed history, user message.
func (b *Builder) Build() ([]chat.ChatMessage, error) {
	if b.player == nil {
		return nil, fmt.Errorf("player is required")
	}
	if strings.TrimSpace(b.userMessage) == "" {
		return nil, fmt.Errorf("user message is required")
	}

	window := chat.Window(b.player.History, b.historyLimit)

	b.messages = make([]chat.ChatMessage, 0, len(window)+2)
	b.messages = append(b.messages, chat.ChatMessage{
		Role:    chat.ChatRoleSystem,
		Content: BuildSystemPrompt(b.player),
	})
	b.messages = append(b.messages, window...)
	b.messages = append(b.messages, chat.ChatMessage{
		Role:    chat.ChatRoleUser,
		Content: b.userMessage,
	})

	return b.messages, nil
}

// BuildMessages is a convenience function for the common case.
func BuildMessages(p *state.PlayerState, message string) ([]chat.ChatMessage, error) {
	return New().
		WithPlayer(p).
		WithUserMessage(message).
		Build()
}
