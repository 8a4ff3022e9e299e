// Package setup is the screen where the learner picks a grade level,
// topic and difficulty.
package setup

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathmentor/internal/problemgen"
	"github.com/abhisek/mathmentor/internal/router"
	"github.com/abhisek/mathmentor/internal/screen"
	"github.com/abhisek/mathmentor/internal/ui/components"
	"github.com/abhisek/mathmentor/internal/ui/layout"
	"github.com/abhisek/mathmentor/internal/ui/theme"
)

type step int

const (
	stepGrade step = iota
	stepTopic
	stepDifficulty
)

var stepTitles = [...]string{
	stepGrade:      "Choose a grade level",
	stepTopic:      "Choose a topic",
	stepDifficulty: "Choose a difficulty",
}

// PracticeFactory builds the practice screen for a completed selection.
type PracticeFactory func(sel problemgen.Selection) screen.Screen

type pickedMsg struct {
	step  step
	value string
}

// SetupScreen walks through the three selection menus.
type SetupScreen struct {
	factory PracticeFactory
	step    step
	menus   [3]components.Menu
	sel     problemgen.Selection
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates a SetupScreen. initial preselects menu entries and may be
// zero.
func New(factory PracticeFactory, initial problemgen.Selection) *SetupScreen {
	s := &SetupScreen{factory: factory, sel: initial}
	s.menus[stepGrade] = newMenu(stepGrade, problemgen.GradeLevels)
	s.menus[stepTopic] = newMenu(stepTopic, problemgen.Topics)

	difficulties := make([]string, len(problemgen.Difficulties))
	for i, d := range problemgen.Difficulties {
		difficulties[i] = string(d)
	}
	s.menus[stepDifficulty] = newMenu(stepDifficulty, difficulties)

	s.menus[stepGrade].Select(initial.GradeLevel)
	s.menus[stepTopic].Select(initial.Topic)
	s.menus[stepDifficulty].Select(initial.Difficulty)
	return s
}

func newMenu(st step, labels []string) components.Menu {
	return components.NewMenu(labels, func(label string) tea.Cmd {
		return func() tea.Msg { return pickedMsg{step: st, value: label} }
	})
}

func (s *SetupScreen) Init() tea.Cmd {
	return nil
}

func (s *SetupScreen) Title() string {
	return "New Practice"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
	}
	if s.step > stepGrade {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

// Selection returns the choices made so far.
func (s *SetupScreen) Selection() problemgen.Selection {
	return s.sel
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case pickedMsg:
		return s.handlePicked(msg)

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc", "backspace":
			if s.step > stepGrade {
				s.step--
			}
			return s, nil
		}
		var cmd tea.Cmd
		s.menus[s.step], cmd = s.menus[s.step].Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SetupScreen) handlePicked(msg pickedMsg) (screen.Screen, tea.Cmd) {
	if msg.step != s.step {
		return s, nil
	}

	switch msg.step {
	case stepGrade:
		s.sel.GradeLevel = msg.value
	case stepTopic:
		s.sel.Topic = msg.value
	case stepDifficulty:
		s.sel.Difficulty = msg.value
	}

	if s.step < stepDifficulty {
		s.step++
		return s, nil
	}

	// Start over at the grade menu when the learner comes back.
	s.step = stepGrade
	if err := s.sel.Validate(); err != nil {
		return s, nil
	}
	next := s.factory(s.sel)
	return s, router.Push(next)
}

func (s *SetupScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Centered(theme.Title, width, stepTitles[s.step]))
	b.WriteString("\n")
	b.WriteString(layout.Centered(theme.Subtitle, width, s.breadcrumb()))
	b.WriteString("\n\n")

	rows := max(height-6, 3)
	menu := s.menus[s.step].View(rows)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.TrimRight(menu, "\n")))
	return b.String()
}

func (s *SetupScreen) breadcrumb() string {
	parts := []string{"Grade", "Topic", "Difficulty"}
	values := []string{s.sel.GradeLevel, s.sel.Topic, s.sel.Difficulty}
	for i := range parts {
		if i < int(s.step) && values[i] != "" {
			parts[i] = values[i]
		}
	}
	return fmt.Sprintf("Step %d of 3: %s", s.step+1, strings.Join(parts, " › "))
}
