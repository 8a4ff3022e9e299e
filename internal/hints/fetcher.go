package hints

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/mathmentor/internal/llm"
)

// PurposeHints labels hint calls in the LLM event log.
const PurposeHints = "hints"

// LLMFetcher fetches hint lists from an LLM provider.
type LLMFetcher struct {
	provider llm.Provider
	cfg      Config
}

// NewLLMFetcher creates a hint fetcher.
func NewLLMFetcher(provider llm.Provider, cfg Config) *LLMFetcher {
	return &LLMFetcher{provider: provider, cfg: cfg}
}

type hintOutput struct {
	Hints []string `json:"hints"`
}

// Fetch asks the provider for the hint list. Blank entries are dropped and
// the list is capped at MaxHints.
func (f *LLMFetcher) Fetch(ctx context.Context, req HintRequest) ([]string, error) {
	ctx = llm.WithPurpose(ctx, PurposeHints)

	resp, err := f.provider.Generate(ctx, llm.Prompt(
		hintSystemPrompt, buildHintUserMessage(req), HintSchema, f.cfg.MaxTokens, f.cfg.Temperature,
	))
	if err != nil {
		return nil, fmt.Errorf("hint generation: %w", err)
	}

	var out hintOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse hint response: %w", err)
	}

	hints := make([]string, 0, len(out.Hints))
	for _, h := range out.Hints {
		if h = strings.TrimSpace(h); h != "" {
			hints = append(hints, h)
		}
		if len(hints) == MaxHints {
			break
		}
	}
	return hints, nil
}
