package setup

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathmentor/internal/problemgen"
	"github.com/abhisek/mathmentor/internal/router"
	"github.com/abhisek/mathmentor/internal/screen"
)

type stubScreen struct {
	sel problemgen.Selection
}

func (s *stubScreen) Init() tea.Cmd                            { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "" }
func (s *stubScreen) Title() string                           { return "stub" }

func newTestSetup(initial problemgen.Selection) (*SetupScreen, *[]problemgen.Selection) {
	var built []problemgen.Selection
	s := New(func(sel problemgen.Selection) screen.Screen {
		built = append(built, sel)
		return &stubScreen{sel: sel}
	}, initial)
	return s, &built
}

// press sends a key and feeds any resulting message back into the screen,
// returning the final command.
func press(t *testing.T, s *SetupScreen, key tea.KeyPressMsg) tea.Cmd {
	t.Helper()
	_, cmd := s.Update(key)
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if _, ok := msg.(pickedMsg); !ok {
		return func() tea.Msg { return msg }
	}
	_, cmd = s.Update(msg)
	return cmd
}

func TestSetup_FullSelection(t *testing.T) {
	s, built := newTestSetup(problemgen.Selection{})
	down := tea.KeyPressMsg{Code: tea.KeyDown}
	enter := tea.KeyPressMsg{Code: tea.KeyEnter}

	// Kindergarten -> 1st Grade.
	s.Update(down)
	if cmd := press(t, s, enter); cmd != nil {
		t.Fatal("expected no navigation after grade")
	}
	if s.step != stepTopic {
		t.Fatalf("step = %d, want topic", s.step)
	}

	// Addition.
	press(t, s, enter)
	if s.step != stepDifficulty {
		t.Fatalf("step = %d, want difficulty", s.step)
	}

	// Moderate.
	s.Update(down)
	cmd := press(t, s, enter)
	if cmd == nil {
		t.Fatal("expected push after difficulty")
	}
	push, ok := cmd().(router.NavMsg)
	if !ok || push.Op != router.OpPush {
		t.Fatalf("expected push navigation, got %#v", cmd())
	}

	want := problemgen.Selection{GradeLevel: "1st Grade", Topic: "Addition", Difficulty: "Moderate"}
	if got := push.Screen.(*stubScreen).sel; got != want {
		t.Errorf("selection = %+v, want %+v", got, want)
	}
	if len(*built) != 1 {
		t.Errorf("factory called %d times, want 1", len(*built))
	}
	if s.step != stepGrade {
		t.Errorf("step after push = %d, want grade", s.step)
	}
}

func TestSetup_EscStepsBack(t *testing.T) {
	s, _ := newTestSetup(problemgen.Selection{})
	press(t, s, tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.step != stepTopic {
		t.Fatalf("step = %d, want topic", s.step)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if s.step != stepGrade {
		t.Errorf("step = %d, want grade", s.step)
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if s.step != stepGrade {
		t.Errorf("esc at first step moved to %d", s.step)
	}
}

func TestSetup_PreselectsInitial(t *testing.T) {
	initial := problemgen.Selection{GradeLevel: "5th Grade", Topic: "Fractions", Difficulty: "Complex"}
	s, _ := newTestSetup(initial)

	if got := s.menus[stepGrade].Current(); got != "5th Grade" {
		t.Errorf("grade cursor = %q", got)
	}
	if got := s.menus[stepTopic].Current(); got != "Fractions" {
		t.Errorf("topic cursor = %q", got)
	}
	if got := s.menus[stepDifficulty].Current(); got != "Complex" {
		t.Errorf("difficulty cursor = %q", got)
	}
}

func TestSetup_View(t *testing.T) {
	s, _ := newTestSetup(problemgen.Selection{})
	view := s.View(80, 18)
	if !strings.Contains(view, "Choose a grade level") {
		t.Error("expected grade prompt")
	}
	if !strings.Contains(view, "Kindergarten") {
		t.Error("expected first grade level listed")
	}
}

func TestSetup_KeyHints(t *testing.T) {
	s, _ := newTestSetup(problemgen.Selection{})
	if n := len(s.KeyHints()); n != 3 {
		t.Errorf("KeyHints at first step = %d, want 3", n)
	}
	s.step = stepTopic
	if n := len(s.KeyHints()); n != 4 {
		t.Errorf("KeyHints at topic step = %d, want 4", n)
	}
}
