// Package screen defines what the router stacks.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathmentor/internal/ui/layout"
)

// Screen is one page of the terminal client: setup, practice or summary.
// View draws only the body; the app adds the header and footer.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider supplies the right side of the header, such as the
// running score.
type StatusProvider interface {
	Status() string
}
