package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/emotiquest/emotiquest/internal/ui/theme"
)

// Choice is a horizontal single-choice selector moved with ←/→. Selected is
// -1 until the user picks something.
type Choice struct {
	Labels   []string
	Selected int
	Focused  bool
}

// NewChoice creates a selector with nothing selected.
func NewChoice(labels []string) Choice {
	return Choice{Labels: labels, Selected: -1}
}

// Update handles ←/→ while focused.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	if !c.Focused {
		return c, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return c, nil
	}
	switch kmsg.String() {
	case "left", "h":
		if c.Selected > 0 {
			c.Selected--
		} else if c.Selected < 0 && len(c.Labels) > 0 {
			c.Selected = 0
		}
	case "right", "l", "space":
		if c.Selected < len(c.Labels)-1 {
			c.Selected++
		}
	}
	return c, nil
}

// Value returns the selected label, or "".
func (c Choice) Value() string {
	if c.Selected < 0 || c.Selected >= len(c.Labels) {
		return ""
	}
	return c.Labels[c.Selected]
}

// View renders the options on one line.
func (c Choice) View() string {
	parts := make([]string, len(c.Labels))
	for i, l := range c.Labels {
		switch {
		case i == c.Selected && c.Focused:
			parts[i] = theme.ButtonActive.Render(l)
		case i == c.Selected:
			parts[i] = theme.Chosen.Render("[" + l + "]")
		default:
			parts[i] = lipgloss.NewStyle().Foreground(theme.TextDim).Render(" " + l + " ")
		}
	}
	return strings.Join(parts, " ")
}
