package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathmentor/internal/hints"
	sess "github.com/abhisek/mathmentor/internal/session"
	"github.com/abhisek/mathmentor/internal/ui/components"
	"github.com/abhisek/mathmentor/internal/ui/layout"
	"github.com/abhisek/mathmentor/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	switch {
	case s.ending:
		return renderNotice(width, "Sending the session summary...")
	case s.loading:
		return renderNotice(width, "Generating a problem...")
	case s.problem == nil:
		msg := "No problem yet."
		if s.errMsg != "" {
			msg = s.errMsg
		}
		return renderError(width, msg+"\n\nPress R to try again.")
	}
	return s.renderProblem(width)
}

func (s *PracticeScreen) renderProblem(width int) string {
	textWidth := min(width-8, 70)
	if layout.IsCompactWidth(width) {
		textWidth = width - 4
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.renderWindow(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	tag := theme.Subtitle.Render(s.problem.GradeLevel+" · "+s.problem.Topic+"  ") +
		theme.Difficulty(s.problem.Difficulty).Render(s.problem.Difficulty)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, tag))
	b.WriteString("\n\n")

	statement := theme.Body.Bold(true).Width(textWidth).Render(s.problem.Statement)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, statement))
	b.WriteString("\n\n")

	b.WriteString(layout.Centered(lipgloss.NewStyle(), width, "Answer: "+s.input.View()))
	b.WriteString("\n")

	if s.result != nil {
		b.WriteString("\n")
		b.WriteString(renderFeedback(width, s.result))
		b.WriteString("\n")
	}

	if s.upgrade != "" || s.topped {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Banner.Render(s.upgradeText())))
		b.WriteString("\n")
	}

	if h := renderHints(textWidth, s.hints); h != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, h))
		b.WriteString("\n")
	}

	if s.fetching {
		b.WriteString("\n")
		b.WriteString(layout.Centered(theme.Hint, width, "Thinking of a hint..."))
	}

	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.Error), width, s.errMsg))
	}

	return b.String()
}

// renderWindow shows progress toward the next upgrade suggestion.
func (s *PracticeScreen) renderWindow(width int) string {
	snap := s.practice.Snapshot()
	caption := fmt.Sprintf("%d/%d correct", snap.WindowCorrect, snap.WindowTotal)
	percent := float64(snap.WindowTotal) / float64(sess.UpgradeWindow)
	bar := components.NewProgressBar("  Next level", percent, caption, min(width-4, 70))
	return bar.View()
}

func (s *PracticeScreen) upgradeText() string {
	if s.topped {
		return "Amazing! 9 of your last 10 were right at the hardest level."
	}
	return fmt.Sprintf("Great job! 9 of your last 10 were right. Press U to try %s problems.", s.upgrade)
}

func renderFeedback(width int, res *sess.AnswerResult) string {
	if res.Correct {
		return layout.Centered(theme.Correct, width, "Correct!")
	}
	return layout.Centered(theme.Incorrect, width, "Not quite") + "\n" +
		layout.Centered(theme.Subtitle, width, fmt.Sprintf("Correct answer: %s", res.Answer))
}

func renderHints(width int, v hints.View) string {
	switch {
	case v.State == hints.NoHintsFetched:
		return ""
	case v.Total == 0:
		return theme.Hint.Render("No hints are available for this problem.")
	}

	var b strings.Builder
	b.WriteString(theme.Label.Render(fmt.Sprintf("Hints (%d of %d)", v.Revealed, v.Total)))
	b.WriteString("\n")
	for i, h := range v.Hints {
		line := fmt.Sprintf("%d. %s", i+1, h)
		b.WriteString(theme.Body.Width(width).Render(line))
		b.WriteString("\n")
	}
	if v.State == hints.AllRevealed {
		b.WriteString(theme.Hint.Render("That's every step."))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderNotice renders a dimmed status line.
func renderNotice(width int, text string) string {
	return layout.Centered(lipgloss.NewStyle().Foreground(theme.TextDim), width, "\n\n\n  "+text)
}

// renderError renders an error message.
func renderError(width int, errMsg string) string {
	return layout.Centered(lipgloss.NewStyle().Foreground(theme.Error), width, "\n\n\n"+errMsg)
}
