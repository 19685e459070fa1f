package transport

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsole_SendTextAndButtons(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, 20)
	ctx := context.Background()

	id, err := c.SendText(ctx, ConsoleChatID, "The road forks beneath an ancient oak tree.", []Button{
		{Data: "action_1", Label: "Left"},
		{Data: "reset", Label: "Erase"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, id)

	out := buf.String()
	assert.Contains(t, out, "[1] Left")
	assert.Contains(t, out, "[2] Erase")
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len([]rune(stripANSI(line))), 40)
	}
}

func TestConsole_Parse(t *testing.T) {
	c := NewConsole(&bytes.Buffer{}, 80)
	ctx := context.Background()

	_, ok := c.Parse("   ")
	assert.False(t, ok)

	u, ok := c.Parse("/start now")
	require.True(t, ok)
	assert.Equal(t, "start", u.Command)
	assert.Equal(t, ConsoleChatID, u.ChatID)

	// No keyboard yet: numbers are plain text.
	u, _ = c.Parse("2")
	assert.Equal(t, "2", u.Text)
	assert.False(t, u.IsCallback())

	id, err := c.SendText(ctx, ConsoleChatID, "Choose", []Button{{Data: "action_1", Label: "Flee"}, {Data: "action_2", Label: "Fight"}})
	require.NoError(t, err)

	u, ok = c.Parse("2")
	require.True(t, ok)
	assert.True(t, u.IsCallback())
	assert.Equal(t, "action_2", u.CallbackData)
	assert.Equal(t, id, u.MessageID)
	label, found := u.ButtonLabel()
	assert.True(t, found)
	assert.Equal(t, "Fight", label)

	u, _ = c.Parse("9")
	assert.False(t, u.IsCallback(), "out of range numbers are text")

	require.NoError(t, c.RemoveButtons(ctx, ConsoleChatID, id))
	u, _ = c.Parse("1")
	assert.False(t, u.IsCallback())

	u, _ = c.Parse("I open the door")
	assert.Equal(t, "I open the door", u.Text)
}

func TestConsole_DiceAndDelete(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf, 80)
	ctx := context.Background()

	id, err := c.SendDice(ctx, ConsoleChatID)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "d20")

	assert.NoError(t, c.DeleteMessage(ctx, ConsoleChatID, id))
	assert.Error(t, c.DeleteMessage(ctx, ConsoleChatID, id+100))
	assert.NoError(t, c.SendTyping(ctx, ConsoleChatID))
	assert.NoError(t, c.AnswerCallback(ctx, "x"))
}

func TestConsole_Updates(t *testing.T) {
	c := NewConsole(&bytes.Buffer{}, 80)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var got []Update
	for u := range c.Updates(ctx, strings.NewReader("/start\n\nhello\n")) {
		got = append(got, u)
	}
	require.Len(t, got, 2)
	assert.Equal(t, "start", got[0].Command)
	assert.Equal(t, "hello", got[1].Text)
}

func stripANSI(s string) string {
	var out strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape && ((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')):
			inEscape = false
		case !inEscape:
			out.WriteRune(r)
		}
	}
	return out.String()
}
