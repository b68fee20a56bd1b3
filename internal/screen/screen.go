package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/emotiquest/emotiquest/internal/flow"
	"github.com/emotiquest/emotiquest/internal/insight"
	"github.com/emotiquest/emotiquest/internal/logging"
	"github.com/emotiquest/emotiquest/internal/store"
	"github.com/emotiquest/emotiquest/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// BackHandler is implemented by screens that handle Esc themselves instead
// of letting the app pop them.
type BackHandler interface {
	Back() tea.Cmd
}

// Refresher is implemented by screens that reload their data when they
// become active again after a pop.
type Refresher interface {
	Refresh() tea.Cmd
}

// Env carries the services screens work with.
type Env struct {
	Flow    *flow.Controller
	Store   *store.Store
	Insight *insight.Service
	Log     *logging.Logger
	Version string
}
