package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/emotiquest/emotiquest/internal/ui/theme"
)

// OptionList is a vertical list of answer options. Chosen marks the option
// already recorded for the question, or -1.
type OptionList struct {
	Question string
	Options  []string
	Cursor   int
	Chosen   int
}

// NewOptionList creates a list with the cursor on chosen, or on the first
// option when nothing was chosen yet.
func NewOptionList(question string, options []string, chosen int) OptionList {
	cursor := chosen
	if cursor < 0 || cursor >= len(options) {
		cursor = 0
	}
	return OptionList{
		Question: question,
		Options:  options,
		Cursor:   cursor,
		Chosen:   chosen,
	}
}

// Update moves the cursor. Picking is left to the caller so it can record
// the answer first.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return o, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
	case "down", "j":
		if o.Cursor < len(o.Options)-1 {
			o.Cursor++
		}
	default:
		// a, b, c... jump to the option
		k := kmsg.String()
		if len(k) == 1 && k[0] >= 'a' && int(k[0]-'a') < len(o.Options) {
			o.Cursor = int(k[0] - 'a')
		}
	}
	return o, nil
}

// View renders the question and its options.
func (o OptionList) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(o.Question))
	b.WriteString("\n\n")

	for i, opt := range o.Options {
		prefix := "  "
		if i == o.Cursor {
			prefix = "▸ "
		}
		mark := " "
		if i == o.Chosen {
			mark = "✓"
		}
		line := fmt.Sprintf("%s%c)  %s %s", prefix, 'A'+i, opt, mark)

		switch {
		case i == o.Cursor:
			b.WriteString(theme.Selected.Render(line))
		case i == o.Chosen:
			b.WriteString(theme.Chosen.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
