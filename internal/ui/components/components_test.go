package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func options() []string {
	return []string{"A) Sunlight", "B) Darkness", "C) Salt", "D) Sand"}
}

func TestMultiChoice_NavigateAndPick(t *testing.T) {
	m := NewMultiChoice("What do plants need?", options())
	if m.Answered() {
		t.Fatal("new question should be unanswered")
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	got, ok := m.Answer()
	if !ok || got != "B) Darkness" {
		t.Errorf("expected B) Darkness, got %q (ok=%v)", got, ok)
	}
}

func TestMultiChoice_LetterKeys(t *testing.T) {
	m := NewMultiChoice("Q", options())
	m, _ = m.Update(tea.KeyPressMsg{Code: 'd', Text: "d"})

	got, _ := m.Answer()
	if got != "D) Sand" {
		t.Errorf("expected D) Sand, got %q", got)
	}
}

func TestMultiChoice_RevealFreezes(t *testing.T) {
	m := NewMultiChoice("Q", options())
	m, _ = m.Update(tea.KeyPressMsg{Code: 'c', Text: "c"})
	m = m.Reveal(0)
	m, _ = m.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})

	got, _ := m.Answer()
	if got != "C) Salt" {
		t.Errorf("revealed question changed answer to %q", got)
	}
	if !strings.Contains(m.View(), "A) Sunlight") {
		t.Error("view should list options")
	}
}

func TestProgressBar_Fraction(t *testing.T) {
	tests := []struct {
		done, total int
		want        float64
	}{
		{0, 3, 0},
		{3, 3, 1},
		{5, 3, 1},
		{1, 0, 0},
	}
	for _, tt := range tests {
		p := NewProgressBar("", tt.done, tt.total, 40)
		if got := p.Fraction(); got != tt.want {
			t.Errorf("Fraction(%d/%d) = %v, want %v", tt.done, tt.total, got, tt.want)
		}
	}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	called := ""
	m := NewMenu([]MenuItem{
		{Label: "Off", Disabled: true},
		{Label: "Student", Action: func() tea.Cmd { called = "student"; return nil }},
		{Label: "Teacher", Action: func() tea.Cmd { called = "teacher"; return nil }},
	})
	if m.Selected != 1 {
		t.Fatalf("expected first enabled item selected, got %d", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 1 {
		t.Errorf("up should not land on a disabled item, got %d", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if called != "teacher" {
		t.Errorf("expected teacher action, got %q", called)
	}
}
