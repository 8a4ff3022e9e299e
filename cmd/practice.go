package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathmentor/internal/app"
	"github.com/abhisek/mathmentor/internal/hints"
	"github.com/abhisek/mathmentor/internal/llm"
	"github.com/abhisek/mathmentor/internal/mailer"
	"github.com/abhisek/mathmentor/internal/problemgen"
	"github.com/abhisek/mathmentor/internal/session"
)

// localGuardian owns the records written by the terminal client.
const localGuardian = "local"

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Practice in the terminal (default command)",
	RunE:  runPractice,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, practiceCmd} {
		c.Flags().String("email", "", "Guardian email for the end-of-session summary")
		c.Flags().String("student", session.DefaultStudentID, "Student ID the problems are recorded under")
		c.Flags().String("grade", "", "Preselect a grade level")
		c.Flags().String("topic", "", "Preselect a topic")
		c.Flags().String("difficulty", "", "Preselect a difficulty")
	}
}

// runPractice opens the store, builds dependencies, and launches the TUI.
func runPractice(cmd *cobra.Command, args []string) error {
	// The TUI owns the terminal; keep library logging off the screen.
	slog.SetDefault(slog.New(slog.DiscardHandler))

	ctx := cmd.Context()
	cfg, st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	eventRepo := st.EventRepo()
	provider, err := llm.NewProviderFromEnv(ctx, eventRepo)
	if err != nil {
		return fmt.Errorf("LLM provider not configured: %w", err)
	}

	email, _ := cmd.Flags().GetString("email")
	studentID, _ := cmd.Flags().GetString("student")

	pcfg := session.Config{
		Generator:            problemgen.New(provider, problemgen.DefaultConfig()),
		Fetcher:              hints.NewLLMFetcher(provider, hints.DefaultConfig()),
		Docs:                 st.DocumentRepo(),
		Events:               eventRepo,
		NotifySolutionViewed: cfg.Email.NotifySolutionViewed,
	}
	if cfg.Email.From != "" && email != "" {
		sender, err := mailer.New(ctx, mailer.Config{
			From:     cfg.Email.From,
			FromName: cfg.Email.FromName,
			Region:   cfg.Email.AWSRegion,
		})
		if err != nil {
			return fmt.Errorf("email: %w", err)
		}
		pcfg.Mailer = sender
	}

	p := session.NewPractice(ctx, pcfg, session.Owner{
		GuardianID: localGuardian,
		StudentID:  studentID,
		Email:      email,
	})
	defer p.Close(ctx)

	grade, _ := cmd.Flags().GetString("grade")
	topic, _ := cmd.Flags().GetString("topic")
	difficulty, _ := cmd.Flags().GetString("difficulty")

	return app.Run(app.Options{
		Practice:  p,
		StudentID: studentID,
		Email:     email,
		Initial: problemgen.Selection{
			GradeLevel: grade,
			Topic:      topic,
			Difficulty: difficulty,
		},
	})
}
