package chat

import (
	"fmt"
	"testing"
)

func history(n int) []ChatMessage {
	h := make([]ChatMessage, 0, n)
	for i := 0; i < n; i++ {
		role := ChatRoleUser
		if i%2 == 1 {
			role = ChatRoleAgent
		}
		h = append(h, ChatMessage{Role: role, Content: fmt.Sprintf("m%d", i)})
	}
	return h
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name      string
		size      int
		limit     int
		wantLen   int
		wantFirst string
	}{
		{name: "shorter than limit", size: 4, limit: 10, wantLen: 4, wantFirst: "m0"},
		{name: "exactly limit", size: 10, limit: 10, wantLen: 10, wantFirst: "m0"},
		{name: "longer than limit", size: 20, limit: 10, wantLen: 10, wantFirst: "m10"},
		{name: "zero limit", size: 5, limit: 0, wantLen: 0},
		{name: "empty history", size: 0, limit: 10, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Window(history(tt.size), tt.limit)
			if len(got) != tt.wantLen {
				t.Fatalf("Window() len = %d, want %d", len(got), tt.wantLen)
			}
			if tt.wantLen > 0 && got[0].Content != tt.wantFirst {
				t.Errorf("Window() first = %q, want %q", got[0].Content, tt.wantFirst)
			}
		})
	}
}

func TestTrim_DoesNotAlias(t *testing.T) {
	h := history(22)
	trimmed := Trim(h, 20)
	if len(trimmed) != 20 {
		t.Fatalf("expected 20 messages, got %d", len(trimmed))
	}
	if trimmed[0].Content != "m2" || trimmed[19].Content != "m21" {
		t.Errorf("unexpected bounds: %q .. %q", trimmed[0].Content, trimmed[19].Content)
	}
	trimmed[0].Content = "changed"
	if h[2].Content != "m2" {
		t.Error("Trim must copy, original history was modified")
	}
}

func TestChatMessage_Validate(t *testing.T) {
	if err := (ChatMessage{Role: ChatRoleUser, Content: "hi"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := (ChatMessage{Role: "narrator", Content: "hi"}).Validate(); err == nil {
		t.Error("expected error for unknown role")
	}
	if err := (ChatMessage{Role: ChatRoleAgent, Content: "  "}).Validate(); err == nil {
		t.Error("expected error for blank content")
	}
}
