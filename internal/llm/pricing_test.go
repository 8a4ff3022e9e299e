package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		want  *ModelCost
	}{
		{"claude-haiku-4-5-20251001", &ModelCost{1, 5}},
		{"gpt-4o-mini", &ModelCost{0.15, 0.6}},
		{"gpt-4o-2024-11-20", &ModelCost{2.5, 10}},
		{"gemini-2.5-flash", &ModelCost{0.3, 2.5}},
		{"gemini-2.5-flash-lite", &ModelCost{0.1, 0.4}},
		{"google/gemini-2.5-flash", &ModelCost{0.3, 2.5}},
		{"models/gemini-2.5-pro", &ModelCost{1.25, 10}},
		{"llama-3-8b", nil},
		{"mock", nil},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, LookupCost(tt.model))
		})
	}
}

func TestModelCost_Cost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	require.NotNil(t, c)
	assert.InDelta(t, 0.00075, c.Cost(1000, 1000), 1e-9)
}

func TestErrorKinds(t *testing.T) {
	assert.True(t, IsKind(fromStatus(429, nil), KindRateLimited))
	assert.True(t, IsKind(fromStatus(503, nil), KindUnavailable))
	assert.True(t, IsKind(fromStatus(0, nil), KindUnavailable))
	assert.True(t, IsKind(fromStatus(404, nil), KindRejected))
	assert.False(t, IsKind(assert.AnError, KindUnavailable))
	assert.Equal(t, "llm: truncated", (&Error{Kind: KindTruncated}).Error())
}
