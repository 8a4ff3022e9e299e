package hints

import (
	"fmt"
	"strings"
)

const hintSystemPrompt = `You are a patient math tutor helping a student work through a problem.

Rules:
- Write a short sequence of hints (usually three) that guide the student toward the solution.
- Each hint builds on the previous one. Start with the idea, end with the last step.
- Do not state the final answer in any hint except, at most, the last one.
- Match the vocabulary to the grade level.
- Use plain text for math. No LaTeX.`

func buildHintUserMessage(req HintRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Grade Level: %s\n", req.GradeLevel)
	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&b, "Difficulty: %s\n", req.DifficultyLevel)
	fmt.Fprintf(&b, "\nProblem:\n%s\n", req.ProblemStatement)

	return b.String()
}
