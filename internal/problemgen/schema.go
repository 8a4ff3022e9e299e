package problemgen

import "github.com/abhisek/mathmentor/internal/llm"

// ProblemSchema defines the JSON schema for LLM problem generation responses.
var ProblemSchema = &llm.Schema{
	Name:        "math-problem",
	Description: "A single math practice problem with its final answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"problem_statement": map[string]any{
				"type":        "string",
				"description": "The problem shown to the student, clear and self-contained",
			},
			"answer": map[string]any{
				"type":        "string",
				"description": "Only the final numerical or symbolic answer, without explanation or units",
			},
		},
		"required":             []any{"problem_statement", "answer"},
		"additionalProperties": false,
	},
}
