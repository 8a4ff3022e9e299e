package hints

import "github.com/abhisek/mathmentor/internal/llm"

// HintSchema defines the JSON schema for hint list responses.
var HintSchema = &llm.Schema{
	Name:        "hint-list",
	Description: "An ordered list of progressive hints for a math problem",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hints": map[string]any{
				"type":        "array",
				"description": "Hints from most general to most specific; the last one may show the final step",
				"items": map[string]any{
					"type": "string",
				},
			},
		},
		"required":             []any{"hints"},
		"additionalProperties": false,
	},
}
