package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathmentor/internal/hints"
	"github.com/abhisek/mathmentor/internal/llm"
	"github.com/abhisek/mathmentor/internal/problemgen"
	"github.com/abhisek/mathmentor/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls",
	RunE:  runLLMList,
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and reply of one call",
	Args:  cobra.ExactArgs(1),
	RunE:  runLLMView,
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost",
	RunE:  runLLMStats,
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "",
		fmt.Sprintf("Only calls made for %q or %q", problemgen.PurposeProblemGen, hints.PurposeHints))

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}

func runLLMList(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	purpose, _ := cmd.Flags().GetString("purpose")

	_, s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
	if err != nil {
		return fmt.Errorf("query events: %w", err)
	}
	return printLLMEvents(cmd.OutOrStdout(), events)
}

func printLLMEvents(out io.Writer, events []store.LLMRequestEvent) error {
	if len(events) == 0 {
		fmt.Fprintln(out, "No LLM calls recorded.")
		return nil
	}
	t := newTable(out, "ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK")
	for _, e := range events {
		ok := "yes"
		if !e.Success {
			ok = "no"
		}
		t.row(e.ID, e.Timestamp.Local().Format(timeLayout), e.Purpose, clip(e.Model, 28),
			e.InputTokens, e.OutputTokens, e.LatencyMs, ok)
	}
	return t.flush()
}

func runLLMView(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid ID %q", args[0])
	}

	_, s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	if e == nil {
		return fmt.Errorf("event %d not found", id)
	}
	printLLMEvent(cmd.OutOrStdout(), e)
	return nil
}

func printLLMEvent(out io.Writer, e *store.LLMRequestEvent) {
	fields := [][2]string{
		{"ID", strconv.Itoa(e.ID)},
		{"Time", e.Timestamp.Local().Format(timeLayout)},
		{"Provider", e.Provider},
		{"Model", e.Model},
		{"Purpose", e.Purpose},
		{"Tokens", fmt.Sprintf("%d in, %d out", e.InputTokens, e.OutputTokens)},
		{"Latency", fmt.Sprintf("%dms", e.LatencyMs)},
		{"Success", strconv.FormatBool(e.Success)},
	}
	if e.ErrorMessage != "" {
		fields = append(fields, [2]string{"Error", e.ErrorMessage})
	}
	for _, f := range fields {
		fmt.Fprintf(out, "%-10s %s\n", f[0]+":", f[1])
	}

	for _, part := range []struct{ title, body string }{
		{"PROMPT", e.RequestBody},
		{"REPLY", e.ResponseBody},
	} {
		body := part.body
		if body == "" {
			body = "(not captured)"
		}
		fmt.Fprintf(out, "\n== %s %s\n%s\n", part.title, strings.Repeat("=", 50), body)
	}
}

func runLLMStats(cmd *cobra.Command, _ []string) error {
	_, s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
	if err != nil {
		return fmt.Errorf("query usage: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(byPurpose) == 0 {
		fmt.Fprintln(out, "No LLM usage recorded yet.")
		return nil
	}
	byModel, err := s.EventRepo().LLMUsageByModel(ctx)
	if err != nil {
		return fmt.Errorf("query model usage: %w", err)
	}

	if err := printPurposeUsage(out, byPurpose); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return printModelCost(out, byModel)
}

func printPurposeUsage(out io.Writer, usage []store.PurposeUsage) error {
	fmt.Fprintln(out, "Usage by purpose")
	t := newTable(out, "Purpose", "Calls", "Input", "Output", "Avg ms")
	var calls, in, outTok int
	for _, u := range usage {
		t.row(u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		in += u.InputTokens
		outTok += u.OutputTokens
	}
	return t.footer("TOTAL", calls, in, outTok, "")
}

// printModelCost prices each model's usage. Models missing from the price
// table show "?" and make the total partial.
func printModelCost(out io.Writer, usage []store.ModelUsage) error {
	fmt.Fprintln(out, "Estimated cost (USD)")
	t := newTable(out, "Model", "Calls", "Input", "Output", "Cost")
	var total float64
	var unpriced []string
	for _, u := range usage {
		price := llm.LookupCost(u.Model)
		if price == nil {
			unpriced = append(unpriced, u.Model)
			t.row(clip(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, "?")
			continue
		}
		c := price.Cost(u.InputTokens, u.OutputTokens)
		total += c
		t.row(clip(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, usd(c))
	}

	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	if err := t.footer(label, "", "", "", usd(total)); err != nil {
		return err
	}
	if len(unpriced) > 0 {
		fmt.Fprintf(out, "\nNo pricing for: %s\n", strings.Join(unpriced, ", "))
	}
	return nil
}
