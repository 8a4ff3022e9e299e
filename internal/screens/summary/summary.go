package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathmentor/internal/router"
	"github.com/abhisek/mathmentor/internal/screen"
	"github.com/abhisek/mathmentor/internal/session"
	"github.com/abhisek/mathmentor/internal/ui/layout"
	"github.com/abhisek/mathmentor/internal/ui/theme"
)

// Options configure a SummaryScreen.
type Options struct {
	Summary session.SessionSummary
	Sent    bool   // the summary email went out
	Email   string // recipient, empty when none is configured
}

// SummaryScreen displays the session summary.
type SummaryScreen struct {
	opts Options
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(opts Options) *SummaryScreen {
	return &SummaryScreen{opts: opts}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "New practice"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			// Back past the finished practice to the setup screen.
			return s, router.Home()
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.opts.Summary

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Centered(theme.Title, width, "Session complete!"))
	b.WriteString("\n\n")

	rows := [][2]string{
		{"Topic", sum.Topic},
		{"Difficulty", sum.Difficulty},
		{"Score", sum.Score()},
		{"Time Spent", sum.TimeSpent()},
	}
	var table strings.Builder
	for _, r := range rows {
		table.WriteString(theme.Label.Width(12).Render(r[0]))
		table.WriteString(theme.Body.Render(r[1]))
		table.WriteString("\n")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.TrimRight(table.String(), "\n")))
	b.WriteString("\n\n")

	if sum.Total > 0 {
		accuracy := fmt.Sprintf("Accuracy: %.0f%%", sum.Accuracy()*100)
		b.WriteString(layout.Centered(theme.Subtitle, width, accuracy))
		b.WriteString("\n\n")
	}

	b.WriteString(layout.Centered(s.emailStyle(), width, s.emailLine()))
	return b.String()
}

func (s *SummaryScreen) emailLine() string {
	switch {
	case s.opts.Sent:
		return fmt.Sprintf("Summary emailed to %s", s.opts.Email)
	case s.opts.Summary.Total == 0:
		return "No problems answered, so no summary was sent."
	case s.opts.Email == "":
		return "No guardian email set, so no summary was sent."
	default:
		return "The summary was already sent for this session."
	}
}

func (s *SummaryScreen) emailStyle() lipgloss.Style {
	if s.opts.Sent {
		return lipgloss.NewStyle().Foreground(theme.Success)
	}
	return theme.Hint
}
