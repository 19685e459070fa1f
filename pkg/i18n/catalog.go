// Package i18n provides the localized strings shown to players.
package i18n

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/dungeon-bot/pkg/state"
)

// Catalog maps message keys to templates for one language.
type Catalog struct {
	lang      state.Language
	tag       language.Tag
	templates map[Key]*template.Template
}

var (
	supported = []language.Tag{language.Russian, language.English}
	matcher   = language.NewMatcher(supported)

	catalogs = map[state.Language]*Catalog{
		state.LanguageRU: mustCatalog(state.LanguageRU, language.Russian, ru),
		state.LanguageEN: mustCatalog(state.LanguageEN, language.English, en),
	}
)

func mustCatalog(lang state.Language, tag language.Tag, messages map[Key]string) *Catalog {
	c, err := NewCatalog(lang, tag, messages)
	if err != nil {
		panic(err)
	}
	return c
}

// NewCatalog parses every message template up front.
func NewCatalog(lang state.Language, tag language.Tag, messages map[Key]string) (*Catalog, error) {
	c := &Catalog{
		lang:      lang,
		tag:       tag,
		templates: make(map[Key]*template.Template, len(messages)),
	}
	for key, text := range messages {
		t, err := template.New(string(key)).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s message %q: %w", lang, key, err)
		}
		c.templates[key] = t
	}
	return c, nil
}

// For returns the catalog of a player language, falling back to the default language.
func For(lang state.Language) *Catalog {
	if c, ok := catalogs[lang]; ok {
		return c
	}
	return catalogs[state.DefaultLanguage]
}

// MatchLanguage maps a client language code such as "en-US" to a supported language.
func MatchLanguage(code string) state.Language {
	code = strings.TrimSpace(code)
	if code == "" {
		return state.DefaultLanguage
	}
	tag, err := language.Parse(code)
	if err != nil {
		return state.DefaultLanguage
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return state.DefaultLanguage
	}
	switch supported[idx] {
	case language.English:
		return state.LanguageEN
	default:
		return state.LanguageRU
	}
}

// Language returns the language this catalog serves.
func (c *Catalog) Language() state.Language {
	return c.lang
}

// Text returns a message that takes no parameters.
func (c *Catalog) Text(key Key) string {
	return c.Format(key, nil)
}

// Format renders the message template with data.
// Falls back to the key itself if no template is found.
func (c *Catalog) Format(key Key, data map[string]any) string {
	t, ok := c.templates[key]
	if !ok {
		return string(key)
	}
	if data == nil {
		data = map[string]any{}
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return string(key)
	}
	return buf.String()
}

var effectKeys = map[state.EffectKind]Key{
	state.EffectHPGain:  KeyEffectHPGain,
	state.EffectHPLoss:  KeyEffectHPLoss,
	state.EffectXPGain:  KeyEffectXPGain,
	state.EffectXPLoss:  KeyEffectXPLoss,
	state.EffectLevelUp: KeyEffectLevelUp,
	state.EffectSpell:   KeyEffectSpell,
	state.EffectItem:    KeyEffectItem,
	state.EffectNote:    KeyEffectNote,
}

// Effect renders one status line for an applied stat change.
func (c *Catalog) Effect(e state.Effect) string {
	key, ok := effectKeys[e.Kind]
	if !ok {
		return string(e.Kind)
	}
	return c.Format(key, map[string]any{"Amount": e.Amount, "Value": e.Value})
}

// TitleName capitalises each word of a hero name using the catalog's casing rules.
func (c *Catalog) TitleName(name string) string {
	return cases.Title(c.tag, cases.NoLower).String(strings.TrimSpace(name))
}
