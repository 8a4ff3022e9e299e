package hints

import "context"

// HintRequest carries the problem context sent to the hint service.
type HintRequest struct {
	// ProblemID identifies the problem in views; it is not sent to the
	// hint service.
	ProblemID string

	GradeLevel       string
	Topic            string
	DifficultyLevel  string
	ProblemStatement string
}

// Fetcher retrieves the ordered hint list for a problem.
type Fetcher interface {
	Fetch(ctx context.Context, req HintRequest) ([]string, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, req HintRequest) ([]string, error)

func (f FetcherFunc) Fetch(ctx context.Context, req HintRequest) ([]string, error) {
	return f(ctx, req)
}
