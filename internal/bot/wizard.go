package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/jwebster45206/dungeon-bot/internal/transport"
	"github.com/jwebster45206/dungeon-bot/internal/turn"
	"github.com/jwebster45206/dungeon-bot/pkg/i18n"
	"github.com/jwebster45206/dungeon-bot/pkg/state"
	"github.com/jwebster45206/dungeon-bot/pkg/storage"
)

const (
	languagePrefix = "lang:"
	genderPrefix   = "gender:"
)

// Language names are shown in their own language on both catalogs.
var languageButtons = []transport.Button{
	{Data: languagePrefix + string(state.LanguageRU), Label: "🇷🇺 Русский"},
	{Data: languagePrefix + string(state.LanguageEN), Label: "🇬🇧 English"},
}

func genderButtons(cat *i18n.Catalog) []transport.Button {
	return []transport.Button{
		{Data: genderPrefix + string(state.GenderMale), Label: cat.Text(i18n.KeyGenderMale)},
		{Data: genderPrefix + string(state.GenderFemale), Label: cat.Text(i18n.KeyGenderFemale)},
	}
}

// Every wizard step reads and writes the session under the chat's turn lock,
// so two quick answers cannot both see the same step.

// startWizard opens (or restarts) registration at the language question.
func (b *Bot) startWizard(ctx context.Context, log *slog.Logger, u transport.Update) error {
	return b.engine.WithLock(ctx, u.ChatID, func(ctx context.Context) error {
		return b.openSession(ctx, log, u)
	})
}

func (b *Bot) openSession(ctx context.Context, log *slog.Logger, u transport.Update) error {
	s := state.NewSession(u.UserID, u.ChatID)
	s.Profile.Language = i18n.MatchLanguage(u.LanguageCode)
	log.Info("Registration started", "user_id", u.UserID)
	return b.prompt(ctx, log, s, u, i18n.For(s.Profile.Language).Text(i18n.KeyAskLanguage), languageButtons)
}

// inWizard runs fn with the session reloaded under the lock.
// Nothing runs when no wizard is open or it is waiting at another step.
func (b *Bot) inWizard(ctx context.Context, u transport.Update, step state.WizardStep, fn func(ctx context.Context, s *state.Session) error) error {
	return b.engine.WithLock(ctx, u.ChatID, func(ctx context.Context) error {
		s, err := b.store.LoadSession(ctx, u.UserID, u.ChatID)
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		if s == nil || (step != "" && s.Step != step) {
			return nil
		}
		return fn(ctx, s)
	})
}

// prompt shows a wizard question, remembers both the answer and the question
// for later cleanup, and saves the session.
func (b *Bot) prompt(ctx context.Context, log *slog.Logger, s *state.Session, u transport.Update, text string, buttons []transport.Button) error {
	if !u.IsCallback() {
		s.Track(u.MessageID)
	}
	s.Track(b.send(ctx, log, u.ChatID, text, buttons))
	s.UpdatedAt = time.Now()
	if err := b.store.SaveSession(ctx, s); err != nil {
		return b.failWizard(ctx, log, u.ChatID, s.Profile.Language, fmt.Errorf("failed to save session: %w", err))
	}
	return nil
}

func (b *Bot) chooseLanguage(ctx context.Context, log *slog.Logger, u transport.Update) error {
	return b.inWizard(ctx, u, state.StepLanguage, func(ctx context.Context, s *state.Session) error {
		s.Profile.Language = state.ParseLanguage(strings.TrimPrefix(u.CallbackData, languagePrefix))
		s.Step = state.StepName
		b.removeButtons(ctx, log, u)
		return b.prompt(ctx, log, s, u, i18n.For(s.Profile.Language).Text(i18n.KeyAskName), nil)
	})
}

func (b *Bot) chooseGender(ctx context.Context, log *slog.Logger, u transport.Update) error {
	return b.inWizard(ctx, u, state.StepGender, func(ctx context.Context, s *state.Session) error {
		gender, err := state.ParseGender(strings.TrimPrefix(u.CallbackData, genderPrefix))
		if err != nil {
			log.Warn("Unknown gender button", "data", u.CallbackData)
			return nil
		}
		s.Profile.Gender = gender
		s.Step = state.StepBackground
		b.removeButtons(ctx, log, u)
		return b.prompt(ctx, log, s, u, i18n.For(s.Profile.Language).Text(i18n.KeyAskBackground), nil)
	})
}

// answerWizard consumes a typed answer for the session's current step.
func (b *Bot) answerWizard(ctx context.Context, log *slog.Logger, u transport.Update) error {
	return b.inWizard(ctx, u, "", func(ctx context.Context, s *state.Session) error {
		cat := i18n.For(s.Profile.Language)
		text := strings.TrimSpace(u.Text)

		switch s.Step {
		case state.StepLanguage:
			return b.prompt(ctx, log, s, u, cat.Text(i18n.KeyAskLanguage), languageButtons)

		case state.StepName:
			if text == "" {
				return b.prompt(ctx, log, s, u, cat.Text(i18n.KeyNameNotText), nil)
			}
			s.Profile.Name = cat.TitleName(text)
			s.Step = state.StepAge
			return b.prompt(ctx, log, s, u, cat.Format(i18n.KeyAskAge, map[string]any{"Name": s.Profile.Name}), nil)

		case state.StepAge:
			age, err := strconv.Atoi(text)
			if err != nil || age <= 0 {
				return b.prompt(ctx, log, s, u, cat.Text(i18n.KeyAgeInvalid), nil)
			}
			s.Profile.Age = age
			s.Step = state.StepGender
			return b.prompt(ctx, log, s, u, cat.Text(i18n.KeyAskGender), genderButtons(cat))

		case state.StepGender:
			return b.prompt(ctx, log, s, u, cat.Text(i18n.KeyAskGender), genderButtons(cat))

		case state.StepBackground:
			if text == "" {
				return b.prompt(ctx, log, s, u, cat.Text(i18n.KeyAskBackground), nil)
			}
			s.Profile.Background = text
			s.Track(u.MessageID)
			return b.completeRegistration(ctx, log, s, u)
		}

		log.Warn("Discarding session with unknown step", "step", s.Step)
		return b.store.DeleteSession(ctx, u.UserID, u.ChatID)
	})
}

// completeRegistration creates or replaces the player and plays the opening turn.
// The caller holds the chat lock.
func (b *Bot) completeRegistration(ctx context.Context, log *slog.Logger, s *state.Session, u transport.Update) error {
	if err := s.Profile.Validate(); err != nil {
		log.Warn("Invalid profile, restarting registration", "error", err)
		return b.openSession(ctx, log, u)
	}
	cat := i18n.For(s.Profile.Language)

	p, err := b.store.LoadPlayer(ctx, u.ChatID)
	switch {
	case errors.Is(err, storage.ErrPlayerNotFound):
		p = state.NewPlayerState(u.ChatID, s.Profile)
	case err != nil:
		return b.failWizard(ctx, log, u.ChatID, s.Profile.Language, fmt.Errorf("failed to load player: %w", err))
	default:
		p.Reregister(s.Profile)
	}
	p.PendingMessageIDs = append(p.PendingMessageIDs, s.MessageIDs...)

	if err := b.store.SavePlayer(ctx, p); err != nil {
		return b.failWizard(ctx, log, u.ChatID, s.Profile.Language, fmt.Errorf("failed to save player: %w", err))
	}
	if err := b.store.DeleteSession(ctx, u.UserID, u.ChatID); err != nil {
		log.Warn("Failed to delete finished session", "error", err)
	}
	log.Info("Player registered", "name", p.Name, "language", p.Language)

	readyID := b.send(ctx, log, u.ChatID, cat.Format(i18n.KeyCharacterReady, map[string]any{
		"Name": p.Name,
		"Age":  p.Age,
	}), nil)

	in := turn.Input{Player: p, Text: cat.Text(i18n.KeyBeginAdventure)}
	if readyID > 0 {
		in.CarryMessageIDs = []int{readyID}
	}
	_, err = b.engine.Play(ctx, in)
	return err
}

func (b *Bot) removeButtons(ctx context.Context, log *slog.Logger, u transport.Update) {
	if err := b.tr.RemoveButtons(ctx, u.ChatID, u.MessageID); err != nil {
		log.Debug("Could not remove buttons", "error", err)
	}
}
