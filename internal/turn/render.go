package turn

import (
	"strings"

	"github.com/jwebster45206/dungeon-bot/internal/transport"
	"github.com/jwebster45206/dungeon-bot/pkg/directive"
	"github.com/jwebster45206/dungeon-bot/pkg/i18n"
	"github.com/jwebster45206/dungeon-bot/pkg/state"
)

// ResetData is the callback data of the always-present erase control.
const ResetData = "reset"

// StatusText renders applied effects as bullet lines, or a placeholder when nothing changed.
func StatusText(cat *i18n.Catalog, effects []state.Effect) string {
	if len(effects) == 0 {
		return cat.Text(i18n.KeyStatusEmpty)
	}
	lines := make([]string, 0, len(effects))
	for _, e := range effects {
		lines = append(lines, "• "+cat.Effect(e))
	}
	return strings.Join(lines, "\n")
}

// Buttons lists the offered choices followed by the reset control.
func Buttons(cat *i18n.Catalog, choices []directive.Choice) []transport.Button {
	buttons := make([]transport.Button, 0, len(choices)+1)
	for _, c := range choices {
		buttons = append(buttons, transport.Button{Data: c.ID, Label: c.Label})
	}
	return append(buttons, transport.Button{Data: ResetData, Label: cat.Text(i18n.KeyResetButton)})
}

// ChoiceInput is the utterance recorded when the player presses a choice.
func ChoiceInput(cat *i18n.Catalog, label string) string {
	return cat.Format(i18n.KeyPlayerChose, map[string]any{"Label": label})
}

// FlourishText renders the dice outcome message.
func FlourishText(cat *i18n.Catalog, flourish string) string {
	return cat.Format(i18n.KeyDiceHeader, map[string]any{"Text": flourish})
}
