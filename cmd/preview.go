package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathmentor/internal/hints"
	"github.com/abhisek/mathmentor/internal/llm"
	"github.com/abhisek/mathmentor/internal/problemgen"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview LLM-generated problems and hints (no database)",
	Long: `Generate and interactively answer problems for a selection.

This is a stateless developer tool: no database, no scoring, no events.
Type "?" at the prompt to reveal the next hint. Useful for evaluating
problem and hint quality for a grade and topic.`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("grade", "3rd Grade", "Grade level")
	previewCmd.Flags().String("topic", "Addition", "Topic")
	previewCmd.Flags().String("difficulty", string(problemgen.DifficultyBasic), "Difficulty")
	previewCmd.Flags().Int("count", 3, "Number of problems to generate")
}

func runPreview(cmd *cobra.Command, args []string) error {
	grade, _ := cmd.Flags().GetString("grade")
	topic, _ := cmd.Flags().GetString("topic")
	difficulty, _ := cmd.Flags().GetString("difficulty")
	count, _ := cmd.Flags().GetInt("count")

	sel := problemgen.Selection{GradeLevel: grade, Topic: topic, Difficulty: difficulty}
	if err := sel.Validate(); err != nil {
		return err
	}

	// No recorder: events are not logged.
	ctx := cmd.Context()
	provider, err := llm.NewProviderFromEnv(ctx, nil)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	gen := problemgen.New(provider, problemgen.DefaultConfig())
	fetcher := hints.NewLLMFetcher(provider, hints.DefaultConfig())
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Printf("%s · %s · %s\n", grade, topic, difficulty)
	fmt.Printf("Generating %d problems...\n\n", count)

	var correct, answered int
	for i := 1; i <= count; i++ {
		req, err := problemgen.NewRequest(sel)
		if err != nil {
			return err
		}
		p, err := gen.Generate(ctx, req)
		if err != nil {
			fmt.Printf("Problem %d: generation failed: %v\n\n", i, err)
			continue
		}

		fmt.Printf("── Problem %d/%d ──\n", i, count)
		fmt.Println(p.Statement)

		seq := hints.NewSequencer(fetcher)
		seq.Reset(hints.HintRequest{
			GradeLevel:       p.GradeLevel,
			Topic:            p.Topic,
			DifficultyLevel:  p.Difficulty,
			ProblemStatement: p.Statement,
		})

		answer, ok := promptAnswer(cmd, scanner, seq)
		if !ok {
			fmt.Println("\n(input closed)")
			break
		}
		if answer == "" {
			fmt.Println("(skipped)")
			fmt.Println()
			continue
		}

		answered++
		if problemgen.CheckAnswer(answer, p.Answer) {
			correct++
			fmt.Println("\033[32m✓ Correct!\033[0m")
		} else {
			fmt.Printf("\033[31m✗ Not quite.\033[0m Answer: %s\n", p.Answer)
		}
		fmt.Println()
	}

	fmt.Printf("── Summary: %d/%d correct ──\n", correct, answered)
	return nil
}

// promptAnswer reads lines until one is not a hint request.
func promptAnswer(cmd *cobra.Command, scanner *bufio.Scanner, seq *hints.Sequencer) (string, bool) {
	for {
		fmt.Print("\nYour answer (? for a hint): ")
		if !scanner.Scan() {
			return "", false
		}
		line := strings.TrimSpace(scanner.Text())
		if line != "?" {
			return line, true
		}

		before := seq.View().Revealed
		v, err := seq.RequestHint(cmd.Context())
		switch {
		case err != nil:
			fmt.Printf("Hints unavailable: %v\n", err)
		case v.Total == 0:
			fmt.Println("No hints for this problem.")
		case v.Revealed == before:
			fmt.Println("All hints revealed.")
		default:
			fmt.Printf("Hint %d/%d: %s\n", v.Revealed, v.Total, v.Hints[v.Revealed-1])
		}
	}
}
