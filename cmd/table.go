package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// table writes aligned columns with a rule under the header and above the
// footer.
type table struct {
	w    *tabwriter.Writer
	cols int
}

func newTable(out io.Writer, header ...string) *table {
	t := &table{w: tabwriter.NewWriter(out, 0, 0, 2, ' ', 0), cols: len(header)}
	t.row(toAny(header)...)
	t.rule()
	return t
}

func (t *table) row(cells ...any) {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(t.w, strings.Join(parts, "\t"))
}

func (t *table) rule() {
	parts := make([]string, t.cols)
	for i := range parts {
		parts[i] = "──────"
	}
	fmt.Fprintln(t.w, strings.Join(parts, "\t"))
}

// footer draws a rule and a totals row, then flushes.
func (t *table) footer(cells ...any) error {
	t.rule()
	t.row(cells...)
	return t.flush()
}

func (t *table) flush() error {
	return t.w.Flush()
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func percent(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%d%%", n*100/total)
}

func usd(v float64) string {
	if v < 0.01 {
		return fmt.Sprintf("$%.4f", v)
	}
	return fmt.Sprintf("$%.2f", v)
}
