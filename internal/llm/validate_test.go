package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func problemSchema() *Schema {
	return &Schema{
		Name:        "test-math-problem",
		Description: "A generated practice problem",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"problem_statement": map[string]any{"type": "string", "minLength": 1},
				"answer":            map[string]any{"type": "string", "minLength": 1},
				"difficulty":        map[string]any{"type": "string", "enum": []any{"Basic", "Moderate", "Complex"}},
			},
			"required":             []any{"problem_statement", "answer"},
			"additionalProperties": false,
		},
	}
}

func hintSchema() *Schema {
	return &Schema{
		Name: "test-hint-list",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"hints": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required": []any{"hints"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		schema  *Schema
		raw     string
		wantErr bool
	}{
		{"valid problem", problemSchema(), `{"problem_statement":"What is 6 x 7?","answer":"42","difficulty":"Basic"}`, false},
		{"optional field omitted", problemSchema(), `{"problem_statement":"What is 6 x 7?","answer":"42"}`, false},
		{"missing answer", problemSchema(), `{"problem_statement":"What is 6 x 7?"}`, true},
		{"empty statement", problemSchema(), `{"problem_statement":"","answer":"42"}`, true},
		{"answer wrong type", problemSchema(), `{"problem_statement":"What is 6 x 7?","answer":42}`, true},
		{"unknown difficulty", problemSchema(), `{"problem_statement":"x","answer":"1","difficulty":"Expert"}`, true},
		{"extra property", problemSchema(), `{"problem_statement":"x","answer":"1","notes":"n"}`, true},
		{"malformed json", problemSchema(), `{not json}`, true},
		{"empty body", problemSchema(), ``, true},
		{"hint list", hintSchema(), `{"hints":["Think of groups of 7.","Count by sevens."]}`, false},
		{"empty hint list", hintSchema(), `{"hints":[]}`, false},
		{"hints not strings", hintSchema(), `{"hints":[1,2]}`, true},
		{"nil schema accepts anything", nil, `{"anything":"goes"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(tt.schema, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var e *Error
				if !errors.As(err, &e) || e.Kind != KindInvalidResponse {
					t.Fatalf("expected invalid response error, got %T %v", err, err)
				}
				if string(e.Content) != tt.raw {
					t.Errorf("Content = %q, want %q", e.Content, tt.raw)
				}
			}
		})
	}
}

func TestCompileSchema_Cached(t *testing.T) {
	s := hintSchema()
	first, err := compileSchema(s)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	second, err := compileSchema(s)
	if err != nil {
		t.Fatalf("compile again: %v", err)
	}
	if first != second {
		t.Error("expected the compiled schema to be served from cache")
	}
}
