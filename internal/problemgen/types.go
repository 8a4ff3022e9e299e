package problemgen

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// ErrInvalidSelection is returned when a grade level, topic or difficulty
// is empty or not one of the known values.
var ErrInvalidSelection = errors.New("invalid selection")

// Selection is what the student picks before asking for a problem.
type Selection struct {
	GradeLevel string `json:"gradeLevel"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

// Validate checks every field against the catalog.
func (s Selection) Validate() error {
	switch {
	case s.GradeLevel == "":
		return fmt.Errorf("%w: please select a grade level", ErrInvalidSelection)
	case !IsGradeLevel(s.GradeLevel):
		return fmt.Errorf("%w: unknown grade level %q", ErrInvalidSelection, s.GradeLevel)
	case s.Topic == "":
		return fmt.Errorf("%w: please select a topic", ErrInvalidSelection)
	case !IsTopic(s.Topic):
		return fmt.Errorf("%w: unknown topic %q", ErrInvalidSelection, s.Topic)
	case s.Difficulty == "":
		return fmt.Errorf("%w: please select a difficulty", ErrInvalidSelection)
	case !IsDifficulty(s.Difficulty):
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidSelection, s.Difficulty)
	}
	return nil
}

// Request is a generation request: a validated selection plus a seed that
// keeps repeated requests for the same selection from producing the same
// problem.
type Request struct {
	Selection
	Seed int64
}

// NewRequest validates sel and attaches a fresh seed.
func NewRequest(sel Selection) (Request, error) {
	if err := sel.Validate(); err != nil {
		return Request{}, err
	}
	return Request{Selection: sel, Seed: NewSeed()}, nil
}

// NewSeed returns a random seed for a generation request.
func NewSeed() int64 {
	return rand.Int64N(1_000_000_000)
}

// Problem is a generated math problem. It is immutable once created and
// replaced wholesale when the student asks for another one.
type Problem struct {
	// ID is unique within the session, used as the document key for the
	// persisted problem record.
	ID string `json:"id"`

	// Statement is the problem text shown to the student.
	Statement string `json:"statement"`

	GradeLevel string `json:"gradeLevel"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`

	// Answer is the canonical answer. Comparison is literal; see CheckAnswer.
	Answer string `json:"answer"`

	CreatedAt time.Time `json:"createdAt"`
}
