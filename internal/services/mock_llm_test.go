package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/jwebster45206/dungeon-bot/pkg/chat"
)

func TestMockLLMService(t *testing.T) {
	mockService := NewMockLLM()

	err := mockService.InitModel(context.Background(), "test-model")
	if err != nil {
		t.Errorf("InitModel failed: %v", err)
	}

	if len(mockService.InitModelCalls) != 1 {
		t.Errorf("Expected 1 InitModel call, got %d", len(mockService.InitModelCalls))
	}

	if mockService.InitModelCalls[0] != "test-model" {
		t.Errorf("Expected model name 'test-model', got '%s'", mockService.InitModelCalls[0])
	}

	messages := []chat.ChatMessage{
		{Role: chat.ChatRoleUser, Content: "Hello"},
	}

	response, err := mockService.GetChatResponse(context.Background(), messages)
	if err != nil {
		t.Errorf("GetChatResponse failed: %v", err)
	}

	if response != "Mock response" {
		t.Errorf("Expected 'Mock response', got '%s'", response)
	}

	_, calls := mockService.GetCalls()
	if len(calls) != 1 {
		t.Errorf("Expected 1 GetChatResponse call, got %d", len(calls))
	}
}

func TestMockLLMService_ErrorHandling(t *testing.T) {
	mockService := NewMockLLM()

	expectedErr := fmt.Errorf("initialization failed")
	mockService.SetInitModelError(expectedErr)
	if err := mockService.InitModel(context.Background(), "test-model"); err != expectedErr {
		t.Errorf("Expected %v, got %v", expectedErr, err)
	}

	responseErr := fmt.Errorf("generation failed")
	mockService.SetError(responseErr)
	if _, err := mockService.GetChatResponse(context.Background(), nil); err != responseErr {
		t.Errorf("Expected %v, got %v", responseErr, err)
	}

	mockService.Reset()
	initCalls, calls := mockService.GetCalls()
	if len(initCalls) != 0 || len(calls) != 0 {
		t.Errorf("Expected calls to be cleared, got %d and %d", len(initCalls), len(calls))
	}
}

func TestMockLLMService_SetResponses(t *testing.T) {
	mockService := NewMockLLM()
	mockService.SetResponses("first", "second")

	var got []string
	for i := 0; i < 3; i++ {
		r, err := mockService.GetChatResponse(context.Background(), nil)
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, r)
	}

	want := []string{"first", "second", "second"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
