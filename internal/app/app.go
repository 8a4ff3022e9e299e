// Package app is the terminal practice client.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathmentor/internal/problemgen"
	"github.com/abhisek/mathmentor/internal/router"
	"github.com/abhisek/mathmentor/internal/screen"
	"github.com/abhisek/mathmentor/internal/screens/practice"
	"github.com/abhisek/mathmentor/internal/screens/setup"
	"github.com/abhisek/mathmentor/internal/session"
	"github.com/abhisek/mathmentor/internal/ui/layout"
)

// Options holds the dependencies the client needs.
type Options struct {
	Practice  *session.Practice
	StudentID string
	Email     string // summary recipient; empty disables the email

	// Initial preselects the setup menus.
	Initial problemgen.Selection
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	screens *router.Stack
	width  int
	height int
}

// newAppModel creates a new AppModel with the setup screen.
func newAppModel(opts Options) AppModel {
	factory := func(sel problemgen.Selection) screen.Screen {
		return practice.New(practice.Options{
			Practice:  opts.Practice,
			Selection: sel,
			StudentID: opts.StudentID,
			Email:     opts.Email,
		})
	}
	return AppModel{
		screens: router.New(setup.New(factory, opts.Initial)),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.screens.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.screens.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if content := m.render(); content != "" {
		v.SetContent(content)
	}
	return v
}

// render composes the frame; empty until the terminal size is known.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.screens.Active()
	title, status := active.Title(), ""
	if sp, ok := active.(screen.StatusProvider); ok {
		status = sp.Status()
	}
	footerHints := []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.screens.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
