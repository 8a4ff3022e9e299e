package problemgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a math problem generator for students from kindergarten through grade 12.

Rules:
- Generate one unique math problem for the given grade level, topic and difficulty.
- Use the seed only to vary the problem; never mention it.
- Basic problems take one step, Moderate problems two or three, Complex problems several steps or a short word problem.
- Keep the statement clear, concise and age-appropriate for the grade level.
- Use plain text for math. No LaTeX. Use / for fractions and * or x for multiplication.
- The answer is only the final numerical or symbolic result, in simplest form, with no explanation and no units.
- Phrase the problem so that the answer has exactly one natural written form.`

// buildUserMessage renders the generation request.
func buildUserMessage(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Grade Level: %s\n", req.GradeLevel)
	fmt.Fprintf(&b, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&b, "Difficulty: %s\n", req.Difficulty)
	fmt.Fprintf(&b, "Seed: %d\n", req.Seed)

	return b.String()
}
