package session

import "errors"

var (
	// ErrNoProblem is returned when an operation needs a current problem.
	ErrNoProblem = errors.New("no active problem")

	// ErrAlreadyAnswered is returned when the current problem was already
	// checked. A new problem unlocks answering again.
	ErrAlreadyAnswered = errors.New("problem already answered")

	// ErrEmptyAnswer is returned for a blank submission.
	ErrEmptyAnswer = errors.New("please enter an answer")

	// ErrGenerationFailed is the user-facing generation error.
	ErrGenerationFailed = errors.New("Failed to generate a math problem. Please try again.")

	// ErrHintsFailed is the user-facing hint error.
	ErrHintsFailed = errors.New("Failed to generate hints. Please try again.")

	// ErrSuperseded is returned when a newer problem request replaced the
	// one in flight.
	ErrSuperseded = errors.New("a newer problem request replaced this one")
)

// userError pairs a user-facing sentinel with the underlying cause so
// both errors.Is(err, ErrGenerationFailed) and errors.Is(err, cause) hold.
type userError struct {
	user  error
	cause error
}

func (e *userError) Error() string { return e.user.Error() }

func (e *userError) Unwrap() []error { return []error{e.user, e.cause} }

// Cause returns the underlying error for logging.
func (e *userError) Cause() error { return e.cause }

func wrapUser(user, cause error) error {
	return &userError{user: user, cause: cause}
}
