package transport

import (
	"context"
	"sync"
)

// Event kinds recorded by Recorder.
const (
	EventText          = "text"
	EventTyping        = "typing"
	EventDice          = "dice"
	EventDelete        = "delete"
	EventRemoveButtons = "remove_buttons"
	EventAnswer        = "answer"
)

// Event is one call made against a Recorder.
type Event struct {
	Kind      string
	ChatID    int64
	MessageID int
	Text      string
	Buttons   []Button
}

// Recorder is an in-memory Transport for tests. Message ids start at 100.
type Recorder struct {
	mu     sync.Mutex
	nextID int
	events []Event

	// Errors injected into the matching calls.
	SendTextErr error
	TypingErr   error
	DiceErr     error
	DeleteErr   error
	RemoveErr   error
}

var _ Transport = (*Recorder)(nil)

func NewRecorder() *Recorder {
	return &Recorder{nextID: 99}
}

func (r *Recorder) record(e Event) {
	r.events = append(r.events, e)
}

func (r *Recorder) SendText(ctx context.Context, chatID int64, text string, buttons []Button) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SendTextErr != nil {
		return 0, r.SendTextErr
	}
	r.nextID++
	kb := make([]Button, len(buttons))
	copy(kb, buttons)
	r.record(Event{Kind: EventText, ChatID: chatID, MessageID: r.nextID, Text: text, Buttons: kb})
	return r.nextID, nil
}

func (r *Recorder) SendTyping(ctx context.Context, chatID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.TypingErr != nil {
		return r.TypingErr
	}
	r.record(Event{Kind: EventTyping, ChatID: chatID})
	return nil
}

func (r *Recorder) SendDice(ctx context.Context, chatID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.DiceErr != nil {
		return 0, r.DiceErr
	}
	r.nextID++
	r.record(Event{Kind: EventDice, ChatID: chatID, MessageID: r.nextID})
	return r.nextID, nil
}

func (r *Recorder) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Event{Kind: EventDelete, ChatID: chatID, MessageID: messageID})
	return r.DeleteErr
}

func (r *Recorder) RemoveButtons(ctx context.Context, chatID int64, messageID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Event{Kind: EventRemoveButtons, ChatID: chatID, MessageID: messageID})
	return r.RemoveErr
}

func (r *Recorder) AnswerCallback(ctx context.Context, callbackID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record(Event{Kind: EventAnswer, Text: callbackID})
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// EventsOf filters recorded events by kind.
func (r *Recorder) EventsOf(kind string) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Texts returns the text of every sent message in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, e := range r.EventsOf(EventText) {
		out = append(out, e.Text)
	}
	return out
}

// LastText returns the most recently sent message, if any.
func (r *Recorder) LastText() (Event, bool) {
	texts := r.EventsOf(EventText)
	if len(texts) == 0 {
		return Event{}, false
	}
	return texts[len(texts)-1], true
}

// Reset clears the recorded events but keeps the id sequence.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
