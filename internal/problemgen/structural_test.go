package problemgen

import (
	"strings"
	"testing"
)

func TestStructuralValidator(t *testing.T) {
	tests := []struct {
		name      string
		statement string
		answer    string
		wantErr   bool
	}{
		{"valid", "What is 2 + 2?", "4", false},
		{"empty statement", "   ", "4", true},
		{"long statement", strings.Repeat("a", 1001), "4", true},
		{"empty answer", "What is 2 + 2?", "", true},
		{"long answer", "What is 2 + 2?", strings.Repeat("4", 101), true},
		{"multiline answer", "What is 2 + 2?", "4\nbecause", true},
	}

	v := &StructuralValidator{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Problem{Statement: tt.statement, Answer: tt.answer}
			err := v.Validate(p, testRequest())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && err.Validator != "structural" {
				t.Errorf("Validator = %q, want structural", err.Validator)
			}
		})
	}
}

func TestLeakValidator(t *testing.T) {
	tests := []struct {
		name      string
		statement string
		answer    string
		wantErr   bool
	}{
		{"plain question", "What is 6 x 7?", "42", false},
		{"answer stated", "What is 6 x 7? The answer is 42.", "42", true},
		{"solution label", "Add 3/4 and 1/4. Solution: 1", "1", true},
		{"marker without answer", "Write your answer: how many apples are left?", "3", false},
		{"number elsewhere", "Sam had 42 marbles and lost 10. How many are left?", "32", false},
	}

	v := &LeakValidator{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(&Problem{Statement: tt.statement, Answer: tt.answer}, testRequest())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
