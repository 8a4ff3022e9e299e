package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show answer accuracy by topic",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, _ []string) error {
	_, s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	stats, err := s.EventRepo().AnswerStatsByTopic(cmd.Context())
	if err != nil {
		return fmt.Errorf("query answer stats: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(stats) == 0 {
		fmt.Fprintln(out, "No answers recorded yet.")
		return nil
	}

	t := newTable(out, "Topic", "Answered", "Correct", "Accuracy")
	var answered, correct int
	for _, st := range stats {
		t.row(st.Topic, st.Answered, st.Correct, percent(st.Correct, st.Answered))
		answered += st.Answered
		correct += st.Correct
	}
	return t.footer("TOTAL", answered, correct, percent(correct, answered))
}
