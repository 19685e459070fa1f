package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// ConsoleChatID identifies the single local player of a console session.
const ConsoleChatID int64 = 1

var (
	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	diceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // yellow
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

// Console implements Transport on a terminal. Buttons are printed as a
// numbered list; typing the number presses the button.
type Console struct {
	mu        sync.Mutex
	out       io.Writer
	width     int
	nextID    int
	keyboards map[int][]Button
	lastKB    int
}

var _ Transport = (*Console)(nil)

// NewConsole writes to out, wrapping text at width columns.
func NewConsole(out io.Writer, width int) *Console {
	if width <= 0 {
		width = 80
	}
	return &Console{
		out:       out,
		width:     width,
		keyboards: make(map[int][]Button),
	}
}

func (c *Console) SendText(ctx context.Context, chatID int64, text string, buttons []Button) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID

	var sb strings.Builder
	sb.WriteString(narratorStyle.Render(wordwrap.String(text, c.width)))
	sb.WriteString("\n")
	for i, b := range buttons {
		sb.WriteString(buttonStyle.Render(fmt.Sprintf("  [%d] %s", i+1, b.Label)))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if len(buttons) > 0 {
		kb := make([]Button, len(buttons))
		copy(kb, buttons)
		c.keyboards[id] = kb
		c.lastKB = id
	}

	if _, err := io.WriteString(c.out, sb.String()); err != nil {
		return 0, fmt.Errorf("failed to write message: %w", err)
	}
	return id, nil
}

func (c *Console) SendTyping(ctx context.Context, chatID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := io.WriteString(c.out, promptStyle.Render("…")+"\n")
	return err
}

// SendDice rolls a d20 locally in place of the animated dice.
func (c *Console) SendDice(ctx context.Context, chatID int64) (int, error) {
	roll, err := dice.NewRoll(1, 20)
	if err != nil {
		return 0, fmt.Errorf("failed to roll dice: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	line := diceStyle.Render(fmt.Sprintf("🎲 d20 → %d", roll.GetValue()))
	if _, err := io.WriteString(c.out, line+"\n\n"); err != nil {
		return 0, fmt.Errorf("failed to write dice: %w", err)
	}
	return c.nextID, nil
}

// DeleteMessage forgets the message keyboard; printed text cannot be unprinted.
func (c *Console) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if messageID <= 0 || messageID > c.nextID {
		return fmt.Errorf("message %d not found", messageID)
	}
	c.dropKeyboard(messageID)
	return nil
}

func (c *Console) RemoveButtons(ctx context.Context, chatID int64, messageID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropKeyboard(messageID)
	return nil
}

func (c *Console) AnswerCallback(ctx context.Context, callbackID string) error {
	return nil
}

func (c *Console) dropKeyboard(messageID int) {
	delete(c.keyboards, messageID)
	if c.lastKB == messageID {
		c.lastKB = 0
	}
}

// Parse turns one input line into an update. A bare number presses the
// matching button of the most recent keyboard.
func (c *Console) Parse(line string) (Update, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Update{}, false
	}

	c.mu.Lock()
	c.nextID++
	u := Update{
		ChatID:    ConsoleChatID,
		UserID:    ConsoleChatID,
		MessageID: c.nextID,
	}
	kb := c.keyboards[c.lastKB]
	kbID := c.lastKB
	c.mu.Unlock()

	if strings.HasPrefix(line, "/") {
		fields := strings.Fields(line[1:])
		if len(fields) > 0 {
			u.Command = fields[0]
		}
		u.Text = line
		return u, true
	}

	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(kb) {
		u.MessageID = kbID
		u.CallbackID = "console-" + strconv.Itoa(kbID)
		u.CallbackData = kb[n-1].Data
		u.Buttons = kb
		return u, true
	}

	u.Text = line
	return u, true
}

// Updates reads lines from r until EOF or ctx is cancelled.
func (c *Console) Updates(ctx context.Context, r io.Reader) <-chan Update {
	out := make(chan Update)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			u, ok := c.Parse(scanner.Text())
			if !ok {
				continue
			}
			select {
			case out <- u:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
