// Package directive extracts the machine-readable directives a game master
// embeds in its narration: numbered choices, a JSON stat delta, and an optional
// dice flourish span.
//
// Expected model output:
//
//	Story prose...
//
//	[DICE]The blade glances off the shield.[/DICE]
//	---
//	ACTION1: [Flee]
//	ACTION2: [Fight]
//	CHANGES: {"hp": -10, "xp": 20, "note": "Angered the guard"}
//	---
//
// Parsing never fails: missing or malformed directives degrade to fewer choices
// and an absent delta.
package directive

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jwebster45206/dungeon-bot/pkg/state"
)

const (
	ChangesMarker  = "CHANGES:"
	DiceOpen       = "[DICE]"
	DiceClose      = "[/DICE]"
	BlockDelimiter = "---"

	MaxChoices = 3
)

var (
	// choice lines; only ACTION1..ACTION3 become buttons
	actionRe = regexp.MustCompile(`ACTION([1-3]):[ \t]*([^\n]*)`)
	// any numbered marker starts the technical block
	anyActionRe = regexp.MustCompile(`ACTION\d+:`)
	delimiterRe = regexp.MustCompile(`(?m)^[ \t]*-{3,}[ \t]*$`)
	diceSpanRe  = regexp.MustCompile(`(?is)\[DICE\](.*?)\[/DICE\]`)
	diceTagRe   = regexp.MustCompile(`(?i)\[/?DICE\]`)
	blankLineRe = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)+`)
	paragraphRe = regexp.MustCompile(`\n[ \t]*\n`)
)

// ErrNoDeltaObject is recorded when a CHANGES marker is not followed by a JSON object.
var ErrNoDeltaObject = errors.New("no JSON object after CHANGES marker")

// Choice is one option presented to the player.
type Choice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ParsedTurn is the structured view of one model response.
type ParsedTurn struct {
	Narration string       `json:"narration"`
	Flourish  string       `json:"flourish,omitempty"`
	Choices   []Choice     `json:"choices"`
	Delta     *state.Delta `json:"delta,omitempty"`

	// DeltaErr is set when a CHANGES marker was present but its object could not be decoded.
	DeltaErr error `json:"-"`
}

// HasFlourish reports whether the response carried a dice span.
func (pt ParsedTurn) HasFlourish() bool {
	return pt.Flourish != ""
}

// Parse splits raw model output into narration, flourish, choices and delta.
func Parse(text string) ParsedTurn {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	pt := ParsedTurn{
		Choices:   parseChoices(text),
		Flourish:  parseFlourish(text),
		Narration: narration(text),
	}
	pt.Delta, pt.DeltaErr = parseDelta(text)
	return pt
}

func parseChoices(text string) []Choice {
	choices := make([]Choice, 0, MaxChoices)
	seen := make(map[string]bool, MaxChoices)

	for _, m := range actionRe.FindAllStringSubmatch(text, -1) {
		n := m[1]
		if seen[n] {
			continue
		}
		label := cleanLabel(m[2])
		if label == "" {
			continue
		}
		seen[n] = true
		choices = append(choices, Choice{ID: "action_" + n, Label: label})
		if len(choices) == MaxChoices {
			break
		}
	}
	return choices
}

// cleanLabel strips the optional [brackets] around a choice label.
func cleanLabel(raw string) string {
	label := strings.TrimSpace(raw)
	label = strings.TrimPrefix(label, "[")
	label = strings.TrimSuffix(label, "]")
	return strings.TrimSpace(label)
}

func parseFlourish(text string) string {
	m := diceSpanRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// rawDelta accepts numbers either bare or quoted.
type rawDelta struct {
	HP    json.Number `json:"hp"`
	XP    json.Number `json:"xp"`
	Learn *string     `json:"learn"`
	Get   *string     `json:"get"`
	Note  *string     `json:"note"`
}

func parseDelta(text string) (*state.Delta, error) {
	idx := strings.Index(text, ChangesMarker)
	if idx < 0 {
		return nil, nil
	}
	rest := text[idx+len(ChangesMarker):]
	brace := strings.Index(rest, "{")
	if brace < 0 || strings.TrimSpace(rest[:brace]) != "" {
		return nil, ErrNoDeltaObject
	}

	var raw rawDelta
	dec := json.NewDecoder(strings.NewReader(rest[brace:]))
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode CHANGES object: %w", err)
	}

	hp, err := toInt(raw.HP)
	if err != nil {
		return nil, fmt.Errorf("invalid hp: %w", err)
	}
	xp, err := toInt(raw.XP)
	if err != nil {
		return nil, fmt.Errorf("invalid xp: %w", err)
	}

	delta := &state.Delta{
		HP:    hp,
		XP:    xp,
		Learn: nonBlank(raw.Learn),
		Get:   nonBlank(raw.Get),
		Note:  nonBlank(raw.Note),
	}
	if delta.IsEmpty() {
		return nil, nil
	}
	return delta, nil
}

// toInt treats zero as absent, truncates fractional values and saturates
// at state.MaxDeltaMagnitude. Non-finite numbers are rejected.
func toInt(n json.Number) (*int, error) {
	if n == "" {
		return nil, nil
	}
	var v int
	if i, err := n.Int64(); err == nil {
		v = int(state.ClampDelta(i))
	} else {
		f, ferr := strconv.ParseFloat(n.String(), 64)
		if ferr != nil {
			return nil, ferr
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("non-finite number %s", n)
		}
		f = math.Max(-state.MaxDeltaMagnitude, math.Min(state.MaxDeltaMagnitude, f))
		v = int(f)
	}
	if v == 0 {
		return nil, nil
	}
	return &v, nil
}

func nonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// narration removes dice spans and everything from the technical block onward.
func narration(text string) string {
	text = diceSpanRe.ReplaceAllString(text, "")

	cut := len(text)
	if loc := delimiterRe.FindStringIndex(text); loc != nil {
		cut = min(cut, loc[0])
	}
	if loc := anyActionRe.FindStringIndex(text); loc != nil {
		cut = min(cut, loc[0])
	}
	if i := strings.Index(text, ChangesMarker); i >= 0 {
		cut = min(cut, i)
	}
	text = text[:cut]

	text = diceTagRe.ReplaceAllString(text, "")
	text = blankLineRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// Paragraphs splits narration on blank lines, dropping empty paragraphs.
func Paragraphs(narration string) []string {
	var out []string
	for _, p := range paragraphRe.Split(narration, -1) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
