package transport

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const updateTimeoutSeconds = 60

// Telegram implements Transport on the Telegram Bot API.
type Telegram struct {
	api    *tgbotapi.BotAPI
	logger *slog.Logger
}

var _ Transport = (*Telegram)(nil)

// NewTelegram connects with a bot token and verifies it with getMe.
func NewTelegram(token string, logger *slog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	return newTelegram(api, logger), nil
}

// NewTelegramWithEndpoint targets a custom Bot API server, e.g. a local one.
// endpoint is a format string such as "http://host/bot%s/%s".
func NewTelegramWithEndpoint(token, endpoint string, client tgbotapi.HTTPClient, logger *slog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}
	return newTelegram(api, logger), nil
}

func newTelegram(api *tgbotapi.BotAPI, logger *slog.Logger) *Telegram {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Connected to Telegram", "bot", api.Self.UserName)
	return &Telegram{api: api, logger: logger}
}

func (t *Telegram) SendText(ctx context.Context, chatID int64, text string, buttons []Button) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	if len(buttons) > 0 {
		msg.ReplyMarkup = inlineKeyboard(buttons)
	}
	sent, err := t.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("failed to send message: %w", err)
	}
	return sent.MessageID, nil
}

func (t *Telegram) SendTyping(ctx context.Context, chatID int64) error {
	if _, err := t.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		return fmt.Errorf("failed to send chat action: %w", err)
	}
	return nil
}

func (t *Telegram) SendDice(ctx context.Context, chatID int64) (int, error) {
	sent, err := t.api.Send(tgbotapi.NewDice(chatID))
	if err != nil {
		return 0, fmt.Errorf("failed to send dice: %w", err)
	}
	return sent.MessageID, nil
}

func (t *Telegram) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	if _, err := t.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		return fmt.Errorf("failed to delete message %d: %w", messageID, err)
	}
	return nil
}

func (t *Telegram) RemoveButtons(ctx context.Context, chatID int64, messageID int) error {
	empty := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}}
	if _, err := t.api.Request(tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, empty)); err != nil {
		return fmt.Errorf("failed to remove buttons from message %d: %w", messageID, err)
	}
	return nil
}

func (t *Telegram) AnswerCallback(ctx context.Context, callbackID string) error {
	if _, err := t.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}

// Updates long-polls Telegram until ctx is cancelled.
func (t *Telegram) Updates(ctx context.Context) <-chan Update {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = updateTimeoutSeconds
	in := t.api.GetUpdatesChan(cfg)

	out := make(chan Update)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				t.api.StopReceivingUpdates()
				return
			case raw, ok := <-in:
				if !ok {
					return
				}
				u, ok := FromTelegram(raw)
				if !ok {
					continue
				}
				select {
				case out <- u:
				case <-ctx.Done():
					t.api.StopReceivingUpdates()
					return
				}
			}
		}
	}()
	return out
}

// FromTelegram converts a Bot API update; updates the bot does not handle yield false.
func FromTelegram(raw tgbotapi.Update) (Update, bool) {
	switch {
	case raw.CallbackQuery != nil:
		cq := raw.CallbackQuery
		u := Update{
			CallbackID:   cq.ID,
			CallbackData: cq.Data,
		}
		if cq.From != nil {
			u.UserID = cq.From.ID
			u.LanguageCode = cq.From.LanguageCode
		}
		if cq.Message != nil {
			u.MessageID = cq.Message.MessageID
			if cq.Message.Chat != nil {
				u.ChatID = cq.Message.Chat.ID
			}
			if cq.Message.ReplyMarkup != nil {
				u.Buttons = fromKeyboard(*cq.Message.ReplyMarkup)
			}
		}
		if u.ChatID == 0 {
			u.ChatID = u.UserID
		}
		return u, true

	case raw.Message != nil:
		m := raw.Message
		u := Update{
			MessageID: m.MessageID,
			Text:      m.Text,
		}
		if m.Chat != nil {
			u.ChatID = m.Chat.ID
		}
		if m.From != nil {
			u.UserID = m.From.ID
			u.LanguageCode = m.From.LanguageCode
		}
		if m.IsCommand() {
			u.Command = m.Command()
		}
		return u, true
	}
	return Update{}, false
}

func inlineKeyboard(buttons []Button) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons))
	for _, b := range buttons {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Data),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func fromKeyboard(kb tgbotapi.InlineKeyboardMarkup) []Button {
	var out []Button
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			if b.CallbackData == nil {
				continue
			}
			out = append(out, Button{Data: *b.CallbackData, Label: b.Text})
		}
	}
	return out
}
