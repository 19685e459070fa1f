package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/jwebster45206/dungeon-bot/internal/config"
)

func TestSetup_ProductionUsesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := setup(&config.Config{Environment: "production", LogLevel: slog.LevelInfo}, &buf)

	WithChat(log, 42).Info("turn finished")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["chat_id"] != float64(42) {
		t.Errorf("expected chat_id 42, got %v", entry["chat_id"])
	}
}

func TestSetup_DevelopmentUsesTextAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := setup(&config.Config{Environment: "development", LogLevel: slog.LevelWarn}, &buf)

	log.Info("hidden")
	WithError(log, errors.New("boom")).Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "error=boom") {
		t.Errorf("unexpected text output: %q", out)
	}
	if slog.Default() != log {
		t.Error("expected Setup to install the default logger")
	}
}
