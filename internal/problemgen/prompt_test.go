package problemgen

import (
	"strings"
	"testing"
)

func TestBuildUserMessage(t *testing.T) {
	msg := buildUserMessage(Request{
		Selection: Selection{GradeLevel: "7th Grade", Topic: "Fractions", Difficulty: "Complex"},
		Seed:      17,
	})

	for _, want := range []string{
		"Grade Level: 7th Grade",
		"Topic: Fractions",
		"Difficulty: Complex",
		"Seed: 17",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestSystemPrompt_AnswerRules(t *testing.T) {
	if !strings.Contains(systemPrompt, "no explanation") {
		t.Error("system prompt should forbid explanations in the answer")
	}
	if !strings.Contains(systemPrompt, "seed") {
		t.Error("system prompt should mention the seed")
	}
}
