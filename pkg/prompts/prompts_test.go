package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jwebster45206/dungeon-bot/pkg/directive"
	"github.com/jwebster45206/dungeon-bot/pkg/state"
)

func TestBuildSystemPrompt_English(t *testing.T) {
	p := testPlayer(0)
	p.Stats.Spells = []string{"Fireball", "Blink"}
	p.Stats.Inventory = []string{"Rope"}
	p.Stats.Notes = []string{"Saved the miller", "Angered the guard"}

	prompt := BuildSystemPrompt(p)

	for _, want := range []string{
		"GAME LANGUAGE: English",
		"Name: Arden (female, 27)",
		"Background: A disgraced temple guard",
		"Abilities: Fireball, Blink",
		"Gear: Rope",
		"- Saved the miller\n- Angered the guard",
		"ACTION1:",
		"CHANGES:",
		"[DICE]",
		"[/DICE]",
	} {
		assert.Contains(t, prompt, want)
	}
	assert.NotContains(t, prompt, "%!")
}

func TestBuildSystemPrompt_Russian(t *testing.T) {
	p := testPlayer(0)
	p.Language = state.LanguageRU
	p.Gender = state.GenderMale

	prompt := BuildSystemPrompt(p)

	assert.Contains(t, prompt, "ЯЗЫК ИГРЫ: Русский")
	assert.Contains(t, prompt, "Arden (мужчина, 27)")
	assert.Contains(t, prompt, "Способности: пока нет")
	assert.Contains(t, prompt, "пока пусто")
	assert.Contains(t, prompt, "CHANGES:")
	assert.NotContains(t, prompt, "%!")
}

func TestBuildSystemPrompt_UnknownLanguageFallsBack(t *testing.T) {
	p := testPlayer(0)
	p.Language = "de"

	assert.Contains(t, BuildSystemPrompt(p), "ЯЗЫК ИГРЫ: Русский")
}

// The example block shown to the model must itself parse cleanly.
func TestSystemPromptExampleParses(t *testing.T) {
	for lang, pack := range languagePacks {
		start := strings.Index(pack.template, "---\nACTION1")
		if !assert.GreaterOrEqual(t, start, 0, "language %s", lang) {
			continue
		}
		pt := directive.Parse("Story.\n" + pack.template[start:])

		assert.Len(t, pt.Choices, 3, "language %s", lang)
		assert.NoError(t, pt.DeltaErr, "language %s", lang)
		if assert.NotNil(t, pt.Delta, "language %s", lang) {
			assert.Equal(t, -10, *pt.Delta.HP)
			assert.Equal(t, 20, *pt.Delta.XP)
		}
		assert.Equal(t, "Story.", pt.Narration)
	}
}
