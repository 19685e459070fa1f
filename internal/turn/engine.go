// Package turn runs one game turn: prompt, model call, directive parsing,
// stat mutation, staged delivery and persistence.
package turn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/dungeon-bot/internal/metrics"
	"github.com/jwebster45206/dungeon-bot/internal/services"
	"github.com/jwebster45206/dungeon-bot/internal/transport"
	"github.com/jwebster45206/dungeon-bot/pkg/chat"
	"github.com/jwebster45206/dungeon-bot/pkg/directive"
	"github.com/jwebster45206/dungeon-bot/pkg/i18n"
	"github.com/jwebster45206/dungeon-bot/pkg/prompts"
	"github.com/jwebster45206/dungeon-bot/pkg/state"
	"github.com/jwebster45206/dungeon-bot/pkg/storage"
)

const (
	DefaultParagraphDelay = 1500 * time.Millisecond
	DefaultDiceDelay      = 3500 * time.Millisecond
	DefaultLLMTimeout     = 60 * time.Second
)

// Options tunes pacing and limits of a turn.
type Options struct {
	ParagraphDelay time.Duration
	DiceDelay      time.Duration
	LLMTimeout     time.Duration
	HistoryLimit   int
}

func DefaultOptions() Options {
	return Options{
		ParagraphDelay: DefaultParagraphDelay,
		DiceDelay:      DefaultDiceDelay,
		LLMTimeout:     DefaultLLMTimeout,
		HistoryLimit:   state.PromptHistoryLimit,
	}
}

// Input is one player action.
type Input struct {
	Player *state.PlayerState
	// Text is the player's words or the ChoiceInput of a pressed button.
	Text string
	// IncomingMessageID is the player's own message, deleted with the previous screen. Zero if none.
	IncomingMessageID int
	// CarryMessageIDs were shown just before the turn and stay on screen with it.
	CarryMessageIDs []int
}

// Result describes a completed turn.
type Result struct {
	TurnID     string
	Parsed     directive.ParsedTurn
	Effects    []state.Effect
	MessageIDs []int
}

// Engine orchestrates turns. It is safe for concurrent use across chats;
// callers serialize turns of one chat with WithLock.
type Engine struct {
	llm    services.LLMService
	store  storage.Storage
	tr     transport.Transport
	locker Locker
	opts   Options
	logger *slog.Logger
}

func NewEngine(llm services.LLMService, store storage.Storage, tr transport.Transport, locker Locker, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if locker == nil {
		locker = NewMemoryLocker()
	}
	if opts.LLMTimeout <= 0 {
		opts.LLMTimeout = DefaultLLMTimeout
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = state.PromptHistoryLimit
	}
	return &Engine{
		llm:    llm,
		store:  store,
		tr:     tr,
		locker: locker,
		opts:   opts,
		logger: logger,
	}
}

// WithLock runs fn while holding the chat's turn lock.
// It returns ErrBusy without running fn when another turn holds the lock.
func (e *Engine) WithLock(ctx context.Context, chatID int64, fn func(ctx context.Context) error) error {
	release, err := e.locker.Acquire(ctx, chatID)
	if err != nil {
		if errors.Is(err, ErrBusy) {
			metrics.TurnsTotal.WithLabelValues(metrics.OutcomeBusy).Inc()
		}
		return err
	}
	defer release()
	return fn(ctx)
}

// Submit loads the chat's player and plays a turn, holding the chat lock throughout.
func (e *Engine) Submit(ctx context.Context, chatID int64, text string, incomingMessageID int) (*Result, error) {
	var res *Result
	err := e.WithLock(ctx, chatID, func(ctx context.Context) error {
		p, err := e.store.LoadPlayer(ctx, chatID)
		if err != nil {
			return err
		}
		res, err = e.Play(ctx, Input{Player: p, Text: text, IncomingMessageID: incomingMessageID})
		return err
	})
	return res, err
}

// Play runs one turn for a player the caller has already locked.
// On success the player is updated in place and persisted. On failure the
// player and its stored record are left untouched and one localized error
// message is shown.
func (e *Engine) Play(ctx context.Context, in Input) (*Result, error) {
	if in.Player == nil {
		return nil, errors.New("player is required")
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, errors.New("input text is required")
	}

	chatID := in.Player.ChatID
	turnID := uuid.NewString()
	log := e.logger.With("chat_id", chatID, "turn_id", turnID)
	cat := i18n.For(in.Player.Language)

	work, err := in.Player.DeepCopy()
	if err != nil {
		return nil, e.fail(ctx, log, cat, chatID, metrics.OutcomeError, err)
	}

	e.clearScreen(ctx, log, chatID, work.PendingMessageIDs, in.IncomingMessageID)
	e.bestEffortTyping(ctx, log, chatID)

	messages, err := prompts.New().
		WithPlayer(work).
		WithUserMessage(in.Text).
		WithHistoryLimit(e.opts.HistoryLimit).
		Build()
	if err != nil {
		return nil, e.fail(ctx, log, cat, chatID, metrics.OutcomeError, fmt.Errorf("failed to build prompt: %w", err))
	}

	raw, err := e.callModel(ctx, messages)
	if err != nil {
		return nil, e.fail(ctx, log, cat, chatID, metrics.OutcomeModelError, fmt.Errorf("model call failed: %w", err))
	}

	parsed := directive.Parse(raw)
	if parsed.DeltaErr != nil {
		metrics.DirectiveParseFailuresTotal.Inc()
		log.Warn("Ignoring malformed CHANGES directive", "error", parsed.DeltaErr)
	}

	sent, err := e.stage(ctx, log, cat, chatID, work, parsed)
	if err != nil {
		return nil, e.fail(ctx, log, cat, chatID, metrics.OutcomeError, err)
	}

	work.AppendExchange(in.Text, raw)
	work.PendingMessageIDs = append(slices.Clone(in.CarryMessageIDs), sent.ids...)
	if err := e.store.SavePlayer(ctx, work); err != nil {
		return nil, e.fail(ctx, log, cat, chatID, metrics.OutcomeError, fmt.Errorf("failed to save player: %w", err))
	}

	*in.Player = *work
	metrics.TurnsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	log.Info("Turn complete",
		"choices", len(parsed.Choices),
		"effects", len(sent.effects),
		"messages", len(sent.ids),
		"flourish", parsed.HasFlourish(),
	)

	return &Result{
		TurnID:     turnID,
		Parsed:     parsed,
		Effects:    sent.effects,
		MessageIDs: sent.ids,
	}, nil
}

func (e *Engine) callModel(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.opts.LLMTimeout)
	defer cancel()

	start := time.Now()
	raw, err := e.llm.GetChatResponse(callCtx, messages)
	metrics.ObserveLLMRequest(start, err)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: empty response", services.ErrModelUnavailable)
	}
	return raw, nil
}

type staged struct {
	ids     []int
	effects []state.Effect
}

// stage sends narration paragraphs, the optional flourish and the final
// status message, applying the delta to work.Stats on the way.
func (e *Engine) stage(ctx context.Context, log *slog.Logger, cat *i18n.Catalog, chatID int64, work *state.PlayerState, parsed directive.ParsedTurn) (staged, error) {
	var out staged

	for i, para := range directive.Paragraphs(parsed.Narration) {
		if i > 0 {
			e.bestEffortTyping(ctx, log, chatID)
			if err := sleep(ctx, e.opts.ParagraphDelay); err != nil {
				return out, err
			}
		}
		id, err := e.tr.SendText(ctx, chatID, para, nil)
		if err != nil {
			return out, fmt.Errorf("failed to send narration: %w", err)
		}
		out.ids = append(out.ids, id)
	}

	if parsed.HasFlourish() {
		id, err := e.tr.SendDice(ctx, chatID)
		if err != nil {
			return out, fmt.Errorf("failed to send dice: %w", err)
		}
		out.ids = append(out.ids, id)

		if err := sleep(ctx, e.opts.DiceDelay); err != nil {
			return out, err
		}
		id, err = e.tr.SendText(ctx, chatID, FlourishText(cat, parsed.Flourish), nil)
		if err != nil {
			return out, fmt.Errorf("failed to send flourish: %w", err)
		}
		out.ids = append(out.ids, id)
	}

	out.effects = state.NewDeltaWorker(&work.Stats, parsed.Delta, log).Apply()

	id, err := e.tr.SendText(ctx, chatID, StatusText(cat, out.effects), Buttons(cat, parsed.Choices))
	if err != nil {
		return out, fmt.Errorf("failed to send status: %w", err)
	}
	out.ids = append(out.ids, id)

	return out, nil
}

// Reset erases the player's record and clears its screen.
func (e *Engine) Reset(ctx context.Context, p *state.PlayerState, incomingMessageID int) error {
	log := e.logger.With("chat_id", p.ChatID)
	cat := i18n.For(p.Language)

	e.clearScreen(ctx, log, p.ChatID, p.PendingMessageIDs, incomingMessageID)
	if err := e.store.DeletePlayer(ctx, p.ChatID); err != nil {
		return e.fail(ctx, log, cat, p.ChatID, metrics.OutcomeError, fmt.Errorf("failed to delete player: %w", err))
	}
	if _, err := e.tr.SendText(ctx, p.ChatID, cat.Text(i18n.KeyResetDone), nil); err != nil {
		log.Warn("Failed to confirm reset", "error", err)
	}
	log.Info("Player reset")
	return nil
}

// fail logs err, shows the generic localized error and returns err.
func (e *Engine) fail(ctx context.Context, log *slog.Logger, cat *i18n.Catalog, chatID int64, outcome string, err error) error {
	metrics.TurnsTotal.WithLabelValues(outcome).Inc()
	log.Error("Turn failed", "error", err, "outcome", outcome)
	if _, sendErr := e.tr.SendText(context.WithoutCancel(ctx), chatID, cat.Text(i18n.KeyGenericError), nil); sendErr != nil {
		log.Debug("Failed to send error notice", "error", sendErr)
	}
	return err
}

// clearScreen deletes the previous turn's messages and the player's own message.
// Failures are logged and never returned.
func (e *Engine) clearScreen(ctx context.Context, log *slog.Logger, chatID int64, pending []int, incoming int) {
	for _, id := range pending {
		e.bestEffortDelete(ctx, log, chatID, id)
	}
	if incoming > 0 {
		e.bestEffortDelete(ctx, log, chatID, incoming)
	}
}

func (e *Engine) bestEffortDelete(ctx context.Context, log *slog.Logger, chatID int64, messageID int) {
	if err := e.tr.DeleteMessage(ctx, chatID, messageID); err != nil {
		log.Debug("Could not delete message", "message_id", messageID, "error", err)
	}
}

func (e *Engine) bestEffortTyping(ctx context.Context, log *slog.Logger, chatID int64) {
	if err := e.tr.SendTyping(ctx, chatID); err != nil {
		log.Debug("Could not send typing indicator", "error", err)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
