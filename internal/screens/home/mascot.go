package home

import (
	"charm.land/lipgloss/v2"

	"github.com/emotiquest/emotiquest/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle   MascotVariant = iota // No sessions yet
	MascotHappy                       // Last session ended on a pleasant emotion
	MascotCaring                      // Last session ended on a difficult emotion
)

const mascotIdle = `╭─────╮
│ ◕ ◕ │
│  ─  │
╰─────╯`

const mascotHappy = `╭─────╮
│ ^ ^ │
│  ◡  │
╰─────╯
  ♥ ♥`

const mascotCaring = `╭─────╮
│ • • │
│  ◠  │
╰─────╯
 ( ♥ )`

// pleasant emotions pick the happy mascot; everything else gets the caring
// one.
var pleasant = map[string]bool{
	"alegria":    true,
	"calma":      true,
	"motivacion": true,
}

// VariantFor returns the mascot for the dominant emotion of the last
// session, or MascotIdle when there is none.
func VariantFor(lastDominant string) MascotVariant {
	switch {
	case lastDominant == "":
		return MascotIdle
	case pleasant[lastDominant]:
		return MascotHappy
	default:
		return MascotCaring
	}
}

// RenderMascot returns the mascot ASCII art for the given variant.
func RenderMascot(v MascotVariant) string {
	art := mascotIdle
	fg := theme.Primary

	switch v {
	case MascotHappy:
		art = mascotHappy
		fg = theme.Star
	case MascotCaring:
		art = mascotCaring
		fg = theme.Secondary
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
