package problemgen

import (
	"context"
	"fmt"
)

// Generator turns a request into a checked Problem.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Problem, error)
}

// Check inspects a freshly generated problem against the request that
// produced it. Checks must not keep state.
type Check interface {
	Name() string
	Validate(p *Problem, req Request) *ValidationError
}

// ValidationError names the check a problem failed.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("generated problem rejected by %s check: %s", e.Validator, e.Message)
}

// Config tunes LLMGenerator.
type Config struct {
	// Checks run in order; the first failure rejects the problem.
	Checks []Check

	MaxTokens   int
	Temperature float64
}

// DefaultConfig checks structure and answer leaks, with a high temperature so
// repeated selections read differently.
func DefaultConfig() Config {
	return Config{
		Checks:      []Check{&StructuralValidator{}, &LeakValidator{}},
		MaxTokens:   512,
		Temperature: 0.9,
	}
}
