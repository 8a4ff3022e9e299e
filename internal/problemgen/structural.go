package problemgen

import (
	"strings"
	"unicode/utf8"
)

const (
	maxStatementLen = 1000
	maxAnswerLen    = 100
)

// StructuralValidator checks that the statement and answer are present
// and within length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(p *Problem, _ Request) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg}
	}

	switch {
	case strings.TrimSpace(p.Statement) == "":
		return fail("problem_statement is empty")
	case utf8.RuneCountInString(p.Statement) > maxStatementLen:
		return fail("problem_statement exceeds 1000 characters")
	case strings.TrimSpace(p.Answer) == "":
		return fail("answer is empty")
	case utf8.RuneCountInString(p.Answer) > maxAnswerLen:
		return fail("answer exceeds 100 characters")
	case strings.Contains(p.Answer, "\n"):
		return fail("answer must be a single line")
	}
	return nil
}

// LeakValidator rejects statements that state their own answer, such as
// "What is 6 x 7? The answer is 42."
type LeakValidator struct{}

var leakMarkers = []string{"answer is", "answer:", "solution is", "solution:", "answer ="}

func (v *LeakValidator) Name() string { return "leak" }

func (v *LeakValidator) Validate(p *Problem, _ Request) *ValidationError {
	answer := strings.ToLower(strings.TrimSpace(p.Answer))
	if answer == "" {
		return nil
	}
	statement := strings.ToLower(p.Statement)
	for _, marker := range leakMarkers {
		idx := strings.Index(statement, marker)
		if idx >= 0 && strings.Contains(statement[idx+len(marker):], answer) {
			return &ValidationError{Validator: v.Name(), Message: "problem_statement gives away the answer"}
		}
	}
	return nil
}
