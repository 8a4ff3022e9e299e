package llm

import "strings"

// ModelCost is USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost returns the USD cost of one call.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1_000_000
}

type priceEntry struct {
	prefix string
	cost   ModelCost
}

// prices is matched by longest prefix so dated snapshots ("-20251001")
// and gateway prefixes ("google/") resolve to their family. List prices
// as of 2026-02.
var prices = []priceEntry{
	{"claude-haiku-4-5", ModelCost{1, 5}},
	{"claude-3-5-haiku", ModelCost{0.8, 4}},
	{"claude-sonnet-4", ModelCost{3, 15}},
	{"claude-3-7-sonnet", ModelCost{3, 15}},
	{"claude-opus-4-5", ModelCost{5, 25}},
	{"claude-opus-4-6", ModelCost{5, 25}},
	{"claude-opus-4", ModelCost{15, 75}},

	{"gpt-4o-mini", ModelCost{0.15, 0.6}},
	{"gpt-4o", ModelCost{2.5, 10}},
	{"gpt-4.1-nano", ModelCost{0.1, 0.4}},
	{"gpt-4.1-mini", ModelCost{0.4, 1.6}},
	{"gpt-4.1", ModelCost{2, 8}},
	{"gpt-5-nano", ModelCost{0.05, 0.4}},
	{"gpt-5-mini", ModelCost{0.25, 2}},
	{"gpt-5.2", ModelCost{1.75, 14}},
	{"gpt-5", ModelCost{1.25, 10}},
	{"o4-mini", ModelCost{1.1, 4.4}},
	{"o3-mini", ModelCost{1.1, 4.4}},
	{"o3", ModelCost{2, 8}},

	{"gemini-2.0-flash-lite", ModelCost{0.075, 0.3}},
	{"gemini-2.0-flash", ModelCost{0.1, 0.4}},
	{"gemini-2.5-flash-lite", ModelCost{0.1, 0.4}},
	{"gemini-2.5-flash", ModelCost{0.3, 2.5}},
	{"gemini-2.5-pro", ModelCost{1.25, 10}},
	{"gemini-3-flash", ModelCost{0.5, 3}},
	{"gemini-3-pro", ModelCost{2, 12}},
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
func LookupCost(modelID string) *ModelCost {
	// Drop gateway and API path prefixes.
	id := modelID
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		id = id[i+1:]
	}

	var best *priceEntry
	for i := range prices {
		e := &prices[i]
		if strings.HasPrefix(id, e.prefix) && (best == nil || len(e.prefix) > len(best.prefix)) {
			best = e
		}
	}
	if best == nil {
		return nil
	}
	c := best.cost
	return &c
}
