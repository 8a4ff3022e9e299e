// Package practice is the screen where the learner works through
// generated problems.
package practice

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathmentor/internal/hints"
	"github.com/abhisek/mathmentor/internal/problemgen"
	"github.com/abhisek/mathmentor/internal/router"
	"github.com/abhisek/mathmentor/internal/screen"
	"github.com/abhisek/mathmentor/internal/screens/summary"
	sess "github.com/abhisek/mathmentor/internal/session"
	"github.com/abhisek/mathmentor/internal/ui/components"
	"github.com/abhisek/mathmentor/internal/ui/layout"
)

const answerCharLimit = 40

// Options configure a PracticeScreen.
type Options struct {
	Practice  *sess.Practice
	Selection problemgen.Selection
	StudentID string

	// Email receives the session summary; empty skips the email.
	Email string
}

// PracticeScreen implements screen.Screen for the active practice.
type PracticeScreen struct {
	practice  *sess.Practice
	sel       problemgen.Selection
	studentID string
	email     string

	problem  *problemgen.Problem
	loading  bool
	fetching bool
	ending   bool
	hints    hints.View
	input    components.AnswerInput
	result   *sess.AnswerResult
	errMsg   string

	// upgrade is the suggested next difficulty, shown until the learner
	// acts on it or moves on.
	upgrade string
	topped  bool // suggestion fired at the hardest difficulty
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.StatusProvider = (*PracticeScreen)(nil)

// New creates a PracticeScreen that requests its first problem on Init.
func New(opts Options) *PracticeScreen {
	return &PracticeScreen{
		practice:  opts.Practice,
		sel:       opts.Selection,
		studentID: opts.StudentID,
		email:     opts.Email,
		input:     components.NewAnswerInput("Type your answer...", answerCharLimit),
	}
}

func (s *PracticeScreen) Init() tea.Cmd {
	return tea.Batch(s.requestProblem(), s.input.Init())
}

func (s *PracticeScreen) Title() string {
	return fmt.Sprintf("%s · %s · %s", s.sel.GradeLevel, s.sel.Topic, s.sel.Difficulty)
}

// Status shows the running session score.
func (s *PracticeScreen) Status() string {
	stats := s.practice.Snapshot().Stats
	return fmt.Sprintf("Score %d/%d", stats.Correct, stats.Total)
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.loading || s.ending:
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	case s.problem == nil:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	case s.result != nil:
		hints := []layout.KeyHint{
			{Key: "N", Description: "Next problem"},
			{Key: "E", Description: "End session"},
		}
		if s.upgrade != "" {
			hints = append(hints, layout.KeyHint{Key: "U", Description: "Try " + s.upgrade})
		}
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Tab", Description: "Hint"},
		{Key: "Shift+Tab", Description: "Solution"},
		{Key: "Ctrl+E", Description: "End"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case problemReadyMsg:
		return s.handleProblemReady(msg)
	case hintsMsg:
		return s.handleHints(msg)
	case answerMsg:
		return s.handleAnswer(msg)
	case endMsg:
		return s.handleEnd(msg)
	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.problem != nil && s.result == nil {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if key == "esc" {
		return s, router.Back()
	}
	if s.loading || s.ending {
		return s, nil
	}

	// No problem: generation failed or was never requested.
	if s.problem == nil {
		if key == "r" || key == "R" || key == "enter" {
			return s, s.requestProblem()
		}
		return s, nil
	}

	// Answered: navigation keys only.
	if s.result != nil {
		switch key {
		case "n", "N", "enter":
			return s, s.requestProblem()
		case "u", "U":
			if s.upgrade != "" {
				s.sel.Difficulty = s.upgrade
				s.upgrade = ""
				return s, s.requestProblem()
			}
		case "e", "E":
			return s, s.endSession()
		case "tab":
			return s, s.requestHints(false)
		case "shift+tab":
			return s, s.requestHints(true)
		}
		return s, nil
	}

	switch key {
	case "enter":
		return s, s.submitAnswer()
	case "tab":
		return s, s.requestHints(false)
	case "shift+tab":
		return s, s.requestHints(true)
	case "ctrl+e":
		return s, s.endSession()
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *PracticeScreen) handleProblemReady(msg problemReadyMsg) (screen.Screen, tea.Cmd) {
	s.loading = false
	if msg.Err != nil {
		if errors.Is(msg.Err, sess.ErrSuperseded) {
			return s, nil
		}
		s.problem = nil
		s.result = nil
		s.errMsg = msg.Err.Error()
		return s, nil
	}

	s.problem = msg.Problem
	s.hints = hints.View{State: hints.NoHintsFetched, Hints: []string{}}
	s.result = nil
	s.errMsg = ""
	s.input = components.NewAnswerInput("Type your answer...", answerCharLimit)
	return s, s.input.Init()
}

func (s *PracticeScreen) handleHints(msg hintsMsg) (screen.Screen, tea.Cmd) {
	s.fetching = false
	if msg.Err != nil {
		if errors.Is(msg.Err, sess.ErrSuperseded) {
			return s, nil
		}
		s.errMsg = msg.Err.Error()
		return s, nil
	}
	s.errMsg = ""
	s.hints = msg.View
	return s, nil
}

func (s *PracticeScreen) handleAnswer(msg answerMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.errMsg = msg.Err.Error()
		return s, nil
	}

	res := msg.Result
	s.errMsg = ""
	s.result = &res
	s.input.Submit(res.Correct)

	if res.SuggestUpgrade {
		s.upgrade = res.NextDifficulty
		s.topped = res.NextDifficulty == ""
	}
	return s, nil
}

func (s *PracticeScreen) handleEnd(msg endMsg) (screen.Screen, tea.Cmd) {
	s.ending = false
	if msg.Err != nil {
		s.errMsg = fmt.Sprintf("Could not send the summary: %v", msg.Err)
		return s, nil
	}

	sum := sess.BuildSummary(msg.Result.Stats, s.sel.Topic, s.sel.Difficulty, time.Now())
	next := summary.New(summary.Options{
		Summary: sum,
		Sent:    msg.Result.SummarySent,
		Email:   s.email,
	})

	s.problem = nil
	s.result = nil
	s.upgrade = ""
	return s, router.Push(next)
}

// requestProblem asks for a new problem asynchronously.
func (s *PracticeScreen) requestProblem() tea.Cmd {
	s.loading = true
	s.errMsg = ""
	s.upgrade = ""
	s.topped = false
	p, sel, studentID := s.practice, s.sel, s.studentID
	return func() tea.Msg {
		problem, err := p.NewProblem(context.Background(), sel, studentID)
		return problemReadyMsg{Problem: problem, Err: err}
	}
}

func (s *PracticeScreen) requestHints(solution bool) tea.Cmd {
	if s.fetching {
		return nil
	}
	if !solution && s.hints.State == hints.AllRevealed {
		return nil
	}
	s.fetching = true
	p := s.practice
	return func() tea.Msg {
		var view hints.View
		var err error
		if solution {
			view, err = p.RequestSolution(context.Background())
		} else {
			view, err = p.RequestHint(context.Background())
		}
		return hintsMsg{View: view, Solution: solution, Err: err}
	}
}

func (s *PracticeScreen) submitAnswer() tea.Cmd {
	p, text := s.practice, s.input.Value()
	return func() tea.Msg {
		res, err := p.SubmitAnswer(context.Background(), text)
		return answerMsg{Result: res, Err: err}
	}
}

func (s *PracticeScreen) endSession() tea.Cmd {
	s.ending = true
	s.errMsg = ""
	p, to := s.practice, s.email
	return func() tea.Msg {
		res, err := p.End(context.Background(), to)
		return endMsg{Result: res, Err: err}
	}
}
