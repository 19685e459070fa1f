package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/jwebster45206/dungeon-bot/pkg/chat"
)

const (
	DefaultDeepSeekBaseURL     = "https://api.deepseek.com"
	DefaultDeepSeekModel       = "deepseek-chat"
	DefaultDeepSeekTemperature = 0.7

	deepSeekHTTPTimeout = 300 * time.Second
)

// DeepSeekService implements LLMService on the OpenAI-compatible DeepSeek API.
type DeepSeekService struct {
	client      *openai.Client
	modelName   string
	temperature float32
	logger      *slog.Logger
}

var _ LLMService = (*DeepSeekService)(nil)

// NewDeepSeekService creates a client; an empty baseURL selects the public DeepSeek endpoint.
func NewDeepSeekService(apiKey, baseURL, modelName string, temperature float32, logger *slog.Logger) *DeepSeekService {
	if baseURL == "" {
		baseURL = DefaultDeepSeekBaseURL
	}
	if modelName == "" {
		modelName = DefaultDeepSeekModel
	}
	if logger == nil {
		logger = slog.Default()
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = strings.TrimRight(baseURL, "/")
	config.HTTPClient = &http.Client{
		Timeout: deepSeekHTTPTimeout,
	}

	return &DeepSeekService{
		client:      openai.NewClientWithConfig(config),
		modelName:   modelName,
		temperature: temperature,
		logger:      logger,
	}
}

// InitModel verifies the model is listed by the API.
func (d *DeepSeekService) InitModel(ctx context.Context, modelName string) error {
	list, err := d.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to list models: %w", ErrModelUnavailable, err)
	}
	for _, m := range list.Models {
		if m.ID == modelName {
			d.logger.Debug("Model is available", "model", modelName)
			return nil
		}
	}
	return fmt.Errorf("%w: model %q not offered by the API", ErrModelUnavailable, modelName)
}

// GetChatResponse sends messages and returns the first choice's content.
func (d *DeepSeekService) GetChatResponse(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("messages cannot be empty")
	}

	req := openai.ChatCompletionRequest{
		Model:       d.modelName,
		Messages:    toOpenAIMessages(messages),
		Temperature: d.temperature,
	}

	start := time.Now()
	resp, err := d.client.CreateChatCompletion(ctx, req)
	if err != nil {
		d.logger.Error("DeepSeek chat completion failed", "model", d.modelName, "error", err, "duration", time.Since(start))
		return "", fmt.Errorf("%w: chat completion failed: %w", ErrModelUnavailable, err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("%w: received empty response from API", ErrModelUnavailable)
	}

	d.logger.Debug("DeepSeek chat completion",
		"model", d.modelName,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"duration", time.Since(start),
	)
	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []chat.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return out
}
