package state

// Delta is the set of optional stat changes the game master requested in one turn.
// A nil field means "not present"; zero amounts and empty strings are normalised
// to nil by the directive parser.
type Delta struct {
	HP    *int    `json:"hp,omitempty"`
	XP    *int    `json:"xp,omitempty"`
	Learn *string `json:"learn,omitempty"` // learned spell or ability
	Get   *string `json:"get,omitempty"`   // acquired item
	Note  *string `json:"note,omitempty"`  // long-term memory entry
}

// IsEmpty checks if the Delta carries no effective change.
func (d *Delta) IsEmpty() bool {
	return d == nil || (isZeroInt(d.HP) &&
		isZeroInt(d.XP) &&
		isBlank(d.Learn) &&
		isBlank(d.Get) &&
		isBlank(d.Note))
}

func isZeroInt(v *int) bool {
	return v == nil || *v == 0
}

func isBlank(v *string) bool {
	return v == nil || *v == ""
}
