package services

import (
	"context"
	"errors"

	"github.com/jwebster45206/dungeon-bot/pkg/chat"
)

// ErrModelUnavailable wraps every failure to obtain a usable completion.
var ErrModelUnavailable = errors.New("model unavailable")

// LLMService defines the interface for interacting with the LLM API
type LLMService interface {
	// InitModel checks that the configured model can be served
	InitModel(ctx context.Context, modelName string) error

	// GetChatResponse sends the full message sequence and returns the raw completion text
	GetChatResponse(ctx context.Context, messages []chat.ChatMessage) (string, error)
}
