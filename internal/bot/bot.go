// Package bot routes incoming chat updates to the registration wizard,
// the reset control and the turn engine.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jwebster45206/dungeon-bot/internal/logger"
	"github.com/jwebster45206/dungeon-bot/internal/transport"
	"github.com/jwebster45206/dungeon-bot/internal/turn"
	"github.com/jwebster45206/dungeon-bot/pkg/i18n"
	"github.com/jwebster45206/dungeon-bot/pkg/state"
	"github.com/jwebster45206/dungeon-bot/pkg/storage"
)

const (
	CommandStart = "start"
	CommandNew   = "new"
	CommandReset = "reset"

	actionPrefix = "action_"
)

// Bot dispatches updates. Each update is handled on its own goroutine;
// turns of one chat are serialized by the engine's lock.
type Bot struct {
	engine *turn.Engine
	store  storage.Storage
	tr     transport.Transport
	logger *slog.Logger

	wg sync.WaitGroup
}

func New(engine *turn.Engine, store storage.Storage, tr transport.Transport, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		engine: engine,
		store:  store,
		tr:     tr,
		logger: logger,
	}
}

// Run handles updates until the channel closes or ctx is cancelled,
// then waits for in-flight handlers to finish.
func (b *Bot) Run(ctx context.Context, updates <-chan transport.Update) error {
	defer b.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u, ok := <-updates:
			if !ok {
				return nil
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				b.Handle(ctx, u)
			}()
		}
	}
}

// Handle processes a single update synchronously.
func (b *Bot) Handle(ctx context.Context, u transport.Update) {
	log := logger.WithChat(b.logger, u.ChatID)

	var err error
	switch {
	case u.IsCallback():
		err = b.handleCallback(ctx, log, u)
	case u.Command != "":
		err = b.handleCommand(ctx, log, u)
	default:
		err = b.handleText(ctx, log, u)
	}

	switch {
	case err == nil:
	case errors.Is(err, turn.ErrBusy):
		log.Info("Rejected input while a turn is running")
		b.reply(ctx, log, u.ChatID, b.catalogFor(ctx, u).Text(i18n.KeyBusy))
	case errors.Is(err, storage.ErrPlayerNotFound):
		b.reply(ctx, log, u.ChatID, b.catalogFor(ctx, u).Text(i18n.KeyNotRegistered))
	default:
		log.Error("Failed to handle update", "error", err)
	}
}

func (b *Bot) handleCommand(ctx context.Context, log *slog.Logger, u transport.Update) error {
	switch strings.ToLower(u.Command) {
	case CommandStart, CommandNew:
		return b.startWizard(ctx, log, u)
	case CommandReset:
		return b.reset(ctx, u)
	default:
		log.Debug("Ignoring unknown command", "command", u.Command)
		return nil
	}
}

func (b *Bot) handleCallback(ctx context.Context, log *slog.Logger, u transport.Update) error {
	if err := b.tr.AnswerCallback(ctx, u.CallbackID); err != nil {
		log.Debug("Could not answer callback", "error", err)
	}

	data := u.CallbackData
	switch {
	case data == turn.ResetData:
		return b.reset(ctx, u)
	case strings.HasPrefix(data, actionPrefix):
		return b.choose(ctx, log, u)
	case strings.HasPrefix(data, languagePrefix):
		return b.chooseLanguage(ctx, log, u)
	case strings.HasPrefix(data, genderPrefix):
		return b.chooseGender(ctx, log, u)
	default:
		log.Warn("Unknown callback data", "data", data)
		return nil
	}
}

// choose plays the choice the player pressed.
func (b *Bot) choose(ctx context.Context, log *slog.Logger, u transport.Update) error {
	label, ok := u.ButtonLabel()
	if !ok {
		log.Warn("Pressed button not found in keyboard", "data", u.CallbackData)
		return nil
	}

	return b.engine.WithLock(ctx, u.ChatID, func(ctx context.Context) error {
		p, err := b.store.LoadPlayer(ctx, u.ChatID)
		if err != nil {
			return err
		}
		if err := b.tr.RemoveButtons(ctx, u.ChatID, u.MessageID); err != nil {
			log.Debug("Could not remove buttons", "error", err)
		}
		cat := i18n.For(p.Language)
		_, err = b.engine.Play(ctx, turn.Input{Player: p, Text: turn.ChoiceInput(cat, label)})
		return err
	})
}

func (b *Bot) handleText(ctx context.Context, log *slog.Logger, u transport.Update) error {
	session, err := b.store.LoadSession(ctx, u.UserID, u.ChatID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if session != nil {
		return b.answerWizard(ctx, log, u)
	}

	if strings.TrimSpace(u.Text) == "" {
		return nil
	}
	_, err = b.engine.Submit(ctx, u.ChatID, u.Text, u.MessageID)
	return err
}

// reset erases the player's record. It works for both the button and /reset.
func (b *Bot) reset(ctx context.Context, u transport.Update) error {
	if err := b.store.DeleteSession(ctx, u.UserID, u.ChatID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return b.engine.WithLock(ctx, u.ChatID, func(ctx context.Context) error {
		p, err := b.store.LoadPlayer(ctx, u.ChatID)
		if err != nil {
			return err
		}
		return b.engine.Reset(ctx, p, u.MessageID)
	})
}

// catalogFor picks the chat's language: the stored player's, then the
// wizard's, then the client's language code.
func (b *Bot) catalogFor(ctx context.Context, u transport.Update) *i18n.Catalog {
	if p, err := b.store.LoadPlayer(ctx, u.ChatID); err == nil {
		return i18n.For(p.Language)
	}
	if s, err := b.store.LoadSession(ctx, u.UserID, u.ChatID); err == nil && s != nil {
		return i18n.For(s.Profile.Language)
	}
	return i18n.For(i18n.MatchLanguage(u.LanguageCode))
}

func (b *Bot) reply(ctx context.Context, log *slog.Logger, chatID int64, text string) {
	b.send(ctx, log, chatID, text, nil)
}

// send returns the new message id, or 0 when sending failed.
func (b *Bot) send(ctx context.Context, log *slog.Logger, chatID int64, text string, buttons []transport.Button) int {
	id, err := b.tr.SendText(ctx, chatID, text, buttons)
	if err != nil {
		log.Warn("Failed to send reply", "error", err)
		return 0
	}
	return id
}

// failWizard tells the player something went wrong and returns err.
func (b *Bot) failWizard(ctx context.Context, log *slog.Logger, chatID int64, lang state.Language, err error) error {
	b.reply(context.WithoutCancel(ctx), log, chatID, i18n.For(lang).Text(i18n.KeyGenericError))
	return err
}
