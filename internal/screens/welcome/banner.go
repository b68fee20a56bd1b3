package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/emotiquest/emotiquest/internal/ui/theme"
)

const bannerArt = `
  ___ __  __  ___ _____ ___ ___  _   _ ___ ___ _____
 | __|  \/  |/ _ \_   _|_ _/ _ \| | | | __/ __|_   _|
 | _|| |\/| | (_) || |  | | (_) | |_| | _|\__ \ | |
 |___|_|  |_|\___/ |_| |___\__\_\\___/|___|___/ |_|`

const bannerCompact = "E M O T I Q U E S T"

// RenderBanner returns the EMOTIQUEST banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 56 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 56 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
