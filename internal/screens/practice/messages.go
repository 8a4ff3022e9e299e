package practice

import (
	"github.com/abhisek/mathmentor/internal/hints"
	"github.com/abhisek/mathmentor/internal/problemgen"
	sess "github.com/abhisek/mathmentor/internal/session"
)

// problemReadyMsg is sent when a problem request finishes.
type problemReadyMsg struct {
	Problem *problemgen.Problem
	Err     error
}

// hintsMsg is sent when a hint or solution request finishes.
type hintsMsg struct {
	View     hints.View
	Solution bool
	Err      error
}

// answerMsg is sent when an answer was checked.
type answerMsg struct {
	Result sess.AnswerResult
	Err    error
}

// endMsg is sent when the session end flow finishes.
type endMsg struct {
	Result sess.EndResult
	Err    error
}
