package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/emotiquest/emotiquest/internal/emotion"
)

func key(r rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: r, Text: string(r)} }

func special(code rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: code} }

func TestOptionListCursor(t *testing.T) {
	o := NewOptionList("¿Cómo estás?", []string{"Bien", "Mal", "Así así"}, -1)
	if o.Cursor != 0 {
		t.Fatalf("expected cursor 0, got %d", o.Cursor)
	}
	o, _ = o.Update(special(tea.KeyDown))
	o, _ = o.Update(special(tea.KeyDown))
	o, _ = o.Update(special(tea.KeyDown))
	if o.Cursor != 2 {
		t.Errorf("cursor should stop at last option, got %d", o.Cursor)
	}
	o, _ = o.Update(key('a'))
	if o.Cursor != 0 {
		t.Errorf("letter should jump to option, got %d", o.Cursor)
	}
	o, _ = o.Update(key('z'))
	if o.Cursor != 0 {
		t.Errorf("letter past the options should be ignored, got %d", o.Cursor)
	}
}

func TestOptionListStartsOnChosen(t *testing.T) {
	o := NewOptionList("q", []string{"a", "b"}, 1)
	if o.Cursor != 1 {
		t.Errorf("expected cursor on chosen option, got %d", o.Cursor)
	}
	if !strings.Contains(o.View(), "✓") {
		t.Error("chosen option should be marked")
	}
}

func TestChoice(t *testing.T) {
	c := NewChoice([]string{"Sí", "Tal vez", "No"})
	c, _ = c.Update(special(tea.KeyRight))
	if c.Value() != "" {
		t.Error("unfocused choice should ignore keys")
	}

	c.Focused = true
	c, _ = c.Update(special(tea.KeyRight))
	if c.Value() != "Sí" {
		t.Errorf("first right selects the first label, got %q", c.Value())
	}
	c, _ = c.Update(special(tea.KeyRight))
	c, _ = c.Update(special(tea.KeyRight))
	c, _ = c.Update(special(tea.KeyRight))
	if c.Value() != "No" {
		t.Errorf("expected last label, got %q", c.Value())
	}
	c, _ = c.Update(special(tea.KeyLeft))
	if c.Value() != "Tal vez" {
		t.Errorf("expected middle label, got %q", c.Value())
	}
}

func TestMenuSkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{{Label: "A", Disabled: true}, {Label: "B"}, {Label: "C", Disabled: true}, {Label: "D"}})
	if m.Selected != 1 {
		t.Fatalf("expected first enabled item, got %d", m.Selected)
	}
	m, _ = m.Update(special(tea.KeyDown))
	if m.Selected != 3 {
		t.Errorf("expected disabled item skipped, got %d", m.Selected)
	}
	if got := strings.Join(m.Labels(), ""); got != "ABCD" {
		t.Errorf("unexpected labels %q", got)
	}
}

func TestBarChart(t *testing.T) {
	out := BarChart([]emotion.ChartRow{
		{Key: "alegria", Name: "Alegría", Emoji: "😊", Color: "#e1c03c", Count: 4},
		{Key: "miedo", Name: "Miedo", Emoji: "😨", Color: "#8e44ad", Count: 1},
	}, 60)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(lines))
	}
	if strings.Count(lines[0], "█") <= strings.Count(lines[1], "█") {
		t.Error("larger count should draw a longer bar")
	}
	if !strings.Contains(BarChart(nil, 60), "Sin datos") {
		t.Error("empty chart should say so")
	}
}

func TestQuizProgress(t *testing.T) {
	tests := []struct {
		name  string
		p     QuizProgress
		ratio float64
	}{
		{"start", QuizProgress{Current: 1, Total: 8}, 0},
		{"half", QuizProgress{Current: 5, Total: 8, Answered: 4}, 0.5},
		{"over", QuizProgress{Current: 8, Total: 8, Answered: 9}, 1},
		{"empty", QuizProgress{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.Ratio(); got != tt.ratio {
				t.Errorf("Ratio() = %v, want %v", got, tt.ratio)
			}
		})
	}

	v := QuizProgress{Current: 3, Total: 8, Answered: 2, Width: 40}.View()
	for _, want := range []string{"Pregunta 3 de 8", "2 respondidas"} {
		if !strings.Contains(v, want) {
			t.Errorf("View() missing %q: %q", want, v)
		}
	}
}
