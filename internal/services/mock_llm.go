package services

import (
	"context"
	"sync"

	"github.com/jwebster45206/dungeon-bot/pkg/chat"
)

// MockLLM is a mock implementation of LLMService for testing
type MockLLM struct {
	InitModelFunc       func(ctx context.Context, modelName string) error
	GetChatResponseFunc func(ctx context.Context, messages []chat.ChatMessage) (string, error)

	// Track calls for testing
	InitModelCalls       []string
	GetChatResponseCalls []GetChatResponseCall

	mu sync.Mutex // protects all fields above
}

type GetChatResponseCall struct {
	Messages []chat.ChatMessage
}

var _ LLMService = (*MockLLM)(nil)

// NewMockLLM creates a new mock LLM service
func NewMockLLM() *MockLLM {
	return &MockLLM{
		InitModelCalls:       make([]string, 0),
		GetChatResponseCalls: make([]GetChatResponseCall, 0),
	}
}

// InitModel mocks model initialization
func (m *MockLLM) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	m.InitModelCalls = append(m.InitModelCalls, modelName)
	fn := m.InitModelFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, modelName)
	}
	return nil
}

// GetChatResponse mocks response generation
func (m *MockLLM) GetChatResponse(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	cp := make([]chat.ChatMessage, len(messages))
	copy(cp, messages)

	m.mu.Lock()
	m.GetChatResponseCalls = append(m.GetChatResponseCalls, GetChatResponseCall{Messages: cp})
	fn := m.GetChatResponseFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, messages)
	}
	return "Mock response", nil
}

// SetResponse makes every call return text.
func (m *MockLLM) SetResponse(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetChatResponseFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		return text, nil
	}
}

// SetResponses returns texts in order, repeating the last one when exhausted.
func (m *MockLLM) SetResponses(texts ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := 0
	m.GetChatResponseFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		m.mu.Lock()
		defer m.mu.Unlock()
		text := texts[min(i, len(texts)-1)]
		i++
		return text, nil
	}
}

// SetError sets up the mock to return an error on GetChatResponse
func (m *MockLLM) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetChatResponseFunc = func(ctx context.Context, messages []chat.ChatMessage) (string, error) {
		return "", err
	}
}

// SetInitModelError sets up the mock to return an error on InitModel
func (m *MockLLM) SetInitModelError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitModelFunc = func(ctx context.Context, modelName string) error {
		return err
	}
}

// Reset clears all call tracking
func (m *MockLLM) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InitModelCalls = make([]string, 0)
	m.GetChatResponseCalls = make([]GetChatResponseCall, 0)
}

// GetCalls returns a copy of the call tracking data in a thread-safe way
func (m *MockLLM) GetCalls() ([]string, []GetChatResponseCall) {
	m.mu.Lock()
	defer m.mu.Unlock()

	initCalls := make([]string, len(m.InitModelCalls))
	copy(initCalls, m.InitModelCalls)

	respCalls := make([]GetChatResponseCall, len(m.GetChatResponseCalls))
	copy(respCalls, m.GetChatResponseCalls)

	return initCalls, respCalls
}
