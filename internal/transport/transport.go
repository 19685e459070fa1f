// Package transport abstracts the chat platform the bot talks through.
package transport

import "context"

// Button is an inline control; Data is returned in the callback when pressed.
type Button struct {
	Data  string `json:"data"`
	Label string `json:"label"`
}

// Transport delivers messages to a chat. Message ids are platform handles
// that can later be deleted or edited.
type Transport interface {
	// SendText sends text with an optional inline keyboard, one button per row.
	SendText(ctx context.Context, chatID int64, text string, buttons []Button) (int, error)
	SendTyping(ctx context.Context, chatID int64) error
	// SendDice sends an animated dice placeholder.
	SendDice(ctx context.Context, chatID int64) (int, error)
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	// RemoveButtons strips the inline keyboard from a sent message.
	RemoveButtons(ctx context.Context, chatID int64, messageID int) error
	AnswerCallback(ctx context.Context, callbackID string) error
}

// Update is one incoming event: a text message, a command, or a button press.
type Update struct {
	ChatID       int64
	UserID       int64
	MessageID    int
	LanguageCode string

	Text    string
	Command string // without the leading slash

	CallbackID   string
	CallbackData string
	// Buttons is the keyboard of the message the pressed button belongs to.
	Buttons []Button
}

// IsCallback reports whether the update is a button press.
func (u Update) IsCallback() bool {
	return u.CallbackID != "" || u.CallbackData != ""
}

// ButtonLabel finds the label of the pressed button in the message keyboard.
func (u Update) ButtonLabel() (string, bool) {
	for _, b := range u.Buttons {
		if b.Data == u.CallbackData {
			return b.Label, true
		}
	}
	return "", false
}
