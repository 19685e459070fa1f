package state

import (
	"fmt"
	"testing"

	"github.com/jwebster45206/dungeon-bot/pkg/chat"
)

func testProfile() Profile {
	return Profile{Name: "Arwen", Age: 27, Gender: GenderFemale, Background: "Exiled healer", Language: LanguageEN}
}

func TestNewPlayerState(t *testing.T) {
	ps := NewPlayerState(42, testProfile())
	if ps.ChatID != 42 {
		t.Errorf("ChatID = %d, want 42", ps.ChatID)
	}
	if ps.Stats.HP != MaxHP || ps.Stats.XP != 0 || ps.Stats.Level != 1 {
		t.Errorf("unexpected starting stats: %+v", ps.Stats)
	}
	if ps.History == nil || ps.PendingMessageIDs == nil {
		t.Error("history and pending ids should be initialized")
	}
}

func TestNewPlayerState_UnknownLanguageFallsBack(t *testing.T) {
	p := testProfile()
	p.Language = "de"
	ps := NewPlayerState(1, p)
	if ps.Language != DefaultLanguage {
		t.Errorf("Language = %q, want %q", ps.Language, DefaultLanguage)
	}
}

func TestAppendExchange_BoundsHistory(t *testing.T) {
	ps := NewPlayerState(1, testProfile())
	for i := 0; i < 15; i++ {
		ps.AppendExchange(fmt.Sprintf("u%d", i), fmt.Sprintf("a%d", i))
		if len(ps.History) > MaxHistory {
			t.Fatalf("history exceeded %d entries: %d", MaxHistory, len(ps.History))
		}
		if len(ps.History)%2 != 0 {
			t.Fatalf("history length should be even, got %d", len(ps.History))
		}
		last := ps.History[len(ps.History)-1]
		prev := ps.History[len(ps.History)-2]
		if last.Role != chat.ChatRoleAgent || last.Content != fmt.Sprintf("a%d", i) {
			t.Errorf("last entry = %+v", last)
		}
		if prev.Role != chat.ChatRoleUser || prev.Content != fmt.Sprintf("u%d", i) {
			t.Errorf("previous entry = %+v", prev)
		}
	}
	if ps.History[0].Content != "u5" {
		t.Errorf("oldest retained entry = %q, want u5", ps.History[0].Content)
	}
}

func TestReregister_ResetsStatsAndHistory(t *testing.T) {
	ps := NewPlayerState(1, testProfile())
	ps.Stats.XP = 500
	ps.Stats.Level = 6
	ps.Stats.Spells = []string{"Fireball"}
	ps.AppendExchange("hello", "world")
	ps.PendingMessageIDs = []int{10, 11}

	p := testProfile()
	p.Name = "Boromir"
	p.Gender = GenderMale
	ps.Reregister(p)

	if ps.Name != "Boromir" || ps.Gender != GenderMale {
		t.Errorf("profile not overwritten: %+v", ps.Profile)
	}
	if ps.Stats.XP != 0 || ps.Stats.Level != 1 || len(ps.Stats.Spells) != 0 {
		t.Errorf("stats not reset: %+v", ps.Stats)
	}
	if len(ps.History) != 0 {
		t.Errorf("history not reset: %v", ps.History)
	}
	if len(ps.PendingMessageIDs) != 2 {
		t.Errorf("pending ids should survive re-registration, got %v", ps.PendingMessageIDs)
	}
}

func TestProfile_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Profile)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Profile) {}},
		{name: "blank name", mutate: func(p *Profile) { p.Name = " " }, wantErr: true},
		{name: "zero age", mutate: func(p *Profile) { p.Age = 0 }, wantErr: true},
		{name: "bad gender", mutate: func(p *Profile) { p.Gender = "other" }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProfile()
			tt.mutate(&p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLevelForXP(t *testing.T) {
	cases := map[int]int{-5: 1, 0: 1, 99: 1, 100: 2, 105: 2, 250: 3}
	for xp, want := range cases {
		if got := LevelForXP(xp); got != want {
			t.Errorf("LevelForXP(%d) = %d, want %d", xp, got, want)
		}
	}
}

func TestDeepCopy(t *testing.T) {
	ps := NewPlayerState(7, testProfile())
	ps.Stats.Notes = []string{"met the witch"}
	cp, err := ps.DeepCopy()
	if err != nil {
		t.Fatalf("DeepCopy() error: %v", err)
	}
	cp.Stats.Notes[0] = "changed"
	if ps.Stats.Notes[0] != "met the witch" {
		t.Error("DeepCopy shares note slice with original")
	}
}
