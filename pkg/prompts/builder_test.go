package prompts

import (
	"fmt"
	"testing"

	"github.com/jwebster45206/dungeon-bot/pkg/chat"
	"github.com/jwebster45206/dungeon-bot/pkg/state"
)

func testPlayer(historyLen int) *state.PlayerState {
	p := state.NewPlayerState(42, state.Profile{
		Name:       "Arden",
		Age:        27,
		Gender:     state.GenderFemale,
		Background: "A disgraced temple guard",
		Language:   state.LanguageEN,
	})
	for i := 0; i < historyLen/2; i++ {
		p.AppendExchange(fmt.Sprintf("u%d", i), fmt.Sprintf("a%d", i))
	}
	return p
}

func TestNew(t *testing.T) {
	builder := New()
	if builder == nil {
		t.Fatal("Expected builder to be created, got nil")
	}
	if builder.historyLimit != state.PromptHistoryLimit {
		t.Errorf("Expected default history limit of %d, got %d", state.PromptHistoryLimit, builder.historyLimit)
	}
	if builder.messages == nil {
		t.Error("Expected messages slice to be initialized")
	}
}

func TestBuilder_FluentInterface(t *testing.T) {
	p := testPlayer(0)

	builder := New().
		WithPlayer(p).
		WithUserMessage("Hello").
		WithHistoryLimit(4)

	if builder.player != p {
		t.Error("WithPlayer did not set player")
	}
	if builder.userMessage != "Hello" {
		t.Error("WithUserMessage did not set message")
	}
	if builder.historyLimit != 4 {
		t.Error("WithHistoryLimit did not set limit")
	}
}

func TestBuilder_Build_Requirements(t *testing.T) {
	if _, err := New().WithUserMessage("hi").Build(); err == nil || err.Error() != "player is required" {
		t.Errorf("Expected 'player is required' error, got: %v", err)
	}
	if _, err := New().WithPlayer(testPlayer(0)).WithUserMessage("  ").Build(); err == nil {
		t.Error("Expected error for blank user message")
	}
}

func TestBuilder_Build_Window(t *testing.T) {
	tests := []struct {
		name        string
		historyLen  int
		limit       int
		wantHistory int
		firstInWin  string
	}{
		{"empty history", 0, 10, 0, ""},
		{"short history", 4, 10, 4, "u0"},
		{"full history windowed to last ten", 20, 10, 10, "u5"},
		{"custom limit", 20, 2, 2, "u9"},
		{"zero limit", 20, 0, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPlayer(tt.historyLen)
			msgs, err := New().WithPlayer(p).WithUserMessage("Look around").WithHistoryLimit(tt.limit).Build()
			if err != nil {
				t.Fatalf("Build failed: %v", err)
			}

			if len(msgs) != tt.wantHistory+2 {
				t.Fatalf("Expected %d messages, got %d", tt.wantHistory+2, len(msgs))
			}
			if msgs[0].Role != chat.ChatRoleSystem {
				t.Errorf("Expected first message to be system, got %s", msgs[0].Role)
			}
			last := msgs[len(msgs)-1]
			if last.Role != chat.ChatRoleUser || last.Content != "Look around" {
				t.Errorf("Expected final user message, got %+v", last)
			}
			if tt.wantHistory > 0 && msgs[1].Content != tt.firstInWin {
				t.Errorf("Expected window to start at %q, got %q", tt.firstInWin, msgs[1].Content)
			}
		})
	}
}

func TestBuilder_Build_DoesNotMutatePlayer(t *testing.T) {
	p := testPlayer(20)
	before, err := p.DeepCopy()
	if err != nil {
		t.Fatal(err)
	}

	msgs, err := BuildMessages(p, "Attack")
	if err != nil {
		t.Fatalf("BuildMessages failed: %v", err)
	}
	msgs[1].Content = "tampered"

	if len(p.History) != len(before.History) {
		t.Fatalf("history length changed: %d -> %d", len(before.History), len(p.History))
	}
	for i := range p.History {
		if p.History[i] != before.History[i] {
			t.Errorf("history[%d] changed: %+v -> %+v", i, before.History[i], p.History[i])
		}
	}
}
