package problemgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/mathmentor/internal/llm"
)

// PurposeProblemGen labels generation calls in the LLM event log.
const PurposeProblemGen = "problem-gen"

// LLMGenerator asks the provider for a problem in ProblemSchema form and
// runs the configured checks on it.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	now      func() time.Time
}

func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg, now: time.Now}
}

type problemOutput struct {
	ProblemStatement string `json:"problem_statement"`
	Answer           string `json:"answer"`
}

func (g *LLMGenerator) Generate(ctx context.Context, req Request) (*Problem, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx = llm.WithPurpose(ctx, PurposeProblemGen)

	resp, err := g.provider.Generate(ctx, llm.Prompt(
		systemPrompt, buildUserMessage(req), ProblemSchema, g.config.MaxTokens, g.config.Temperature,
	))
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw problemOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	p := &Problem{
		ID:         uuid.NewString(),
		Statement:  strings.TrimSpace(raw.ProblemStatement),
		GradeLevel: req.GradeLevel,
		Topic:      req.Topic,
		Difficulty: req.Difficulty,
		Answer:     strings.TrimSpace(raw.Answer),
		CreatedAt:  g.now().UTC(),
	}

	for _, v := range g.config.Checks {
		if verr := v.Validate(p, req); verr != nil {
			return nil, verr
		}
	}

	return p, nil
}
