package state

import (
	"log/slog"
	"strings"
)

type EffectKind string

const (
	EffectHPGain  EffectKind = "hp_gain"
	EffectHPLoss  EffectKind = "hp_loss"
	EffectXPGain  EffectKind = "xp_gain"
	EffectXPLoss  EffectKind = "xp_loss"
	EffectLevelUp EffectKind = "level_up"
	EffectSpell   EffectKind = "spell"
	EffectItem    EffectKind = "item"
	EffectNote    EffectKind = "note"
)

// Effect describes one applied change, in application order.
// Amount is an absolute value for hp/xp changes and the new level for level ups.
type Effect struct {
	Kind   EffectKind `json:"kind"`
	Amount int        `json:"amount,omitempty"`
	Value  string     `json:"value,omitempty"`
}

// DeltaWorker applies a Delta to player stats, enforcing clamps and leveling.
type DeltaWorker struct {
	stats  *Stats
	delta  *Delta
	logger *slog.Logger
}

// NewDeltaWorker creates a new delta worker for applying stat changes
func NewDeltaWorker(stats *Stats, delta *Delta, logger *slog.Logger) *DeltaWorker {
	return &DeltaWorker{
		stats:  stats,
		delta:  delta,
		logger: logger,
	}
}

// Apply folds the delta into the stats and returns the effects for the status summary.
// An absent or empty delta yields no effects.
func (dw *DeltaWorker) Apply() []Effect {
	if dw.stats == nil || dw.delta.IsEmpty() {
		return nil
	}

	var effects []Effect
	effects = append(effects, dw.applyHP()...)
	effects = append(effects, dw.applyXP()...)

	if v := clean(dw.delta.Learn); v != "" {
		dw.stats.Spells = append(dw.stats.Spells, v)
		effects = append(effects, Effect{Kind: EffectSpell, Value: v})
	}
	if v := clean(dw.delta.Get); v != "" {
		dw.stats.Inventory = append(dw.stats.Inventory, v)
		effects = append(effects, Effect{Kind: EffectItem, Value: v})
	}
	if v := clean(dw.delta.Note); v != "" {
		dw.addNote(v)
		effects = append(effects, Effect{Kind: EffectNote, Value: v})
	}

	if dw.logger != nil {
		dw.logger.Debug("Applied delta",
			"hp", dw.stats.HP,
			"xp", dw.stats.XP,
			"level", dw.stats.Level,
			"effects", len(effects))
	}
	return effects
}

func (dw *DeltaWorker) applyHP() []Effect {
	if isZeroInt(dw.delta.HP) {
		return nil
	}
	amount := int(ClampDelta(int64(*dw.delta.HP)))
	dw.stats.HP = clampHP(dw.stats.HP + amount)
	if amount > 0 {
		return []Effect{{Kind: EffectHPGain, Amount: amount}}
	}
	return []Effect{{Kind: EffectHPLoss, Amount: -amount}}
}

func (dw *DeltaWorker) applyXP() []Effect {
	if isZeroInt(dw.delta.XP) {
		return nil
	}
	amount := int(ClampDelta(int64(*dw.delta.XP)))

	// level only ever rises; remember it before xp moves
	previous := dw.stats.Level
	if previous < 1 {
		previous = 1
	}

	dw.stats.XP += amount
	if dw.stats.XP < 0 {
		dw.stats.XP = 0
	}

	var effects []Effect
	if amount > 0 {
		effects = append(effects, Effect{Kind: EffectXPGain, Amount: amount})
	} else {
		effects = append(effects, Effect{Kind: EffectXPLoss, Amount: -amount})
	}

	dw.stats.Level = previous
	if derived := LevelForXP(dw.stats.XP); derived > previous {
		dw.stats.Level = derived
		effects = append(effects, Effect{Kind: EffectLevelUp, Amount: derived})
	}
	return effects
}

func (dw *DeltaWorker) addNote(note string) {
	dw.stats.Notes = append(dw.stats.Notes, note)
	if over := len(dw.stats.Notes) - MaxNotes; over > 0 {
		dw.stats.Notes = append([]string(nil), dw.stats.Notes[over:]...)
	}
}

// ClampDelta saturates a single hp or xp change at ±MaxDeltaMagnitude.
func ClampDelta(v int64) int64 {
	return max(-MaxDeltaMagnitude, min(MaxDeltaMagnitude, v))
}

func clampHP(hp int) int {
	return max(0, min(MaxHP, hp))
}

func clean(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
