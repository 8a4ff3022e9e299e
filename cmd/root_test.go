package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathmentor/internal/config"
	"github.com/abhisek/mathmentor/internal/store"
)

func newFlagCmd(t *testing.T, db string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	c.Flags().String("db", "", "")
	if db != "" {
		require.NoError(t, c.Flags().Set("db", db))
	}
	return c
}

func TestResolveDSNFlagWins(t *testing.T) {
	dir := t.TempDir()
	flag := filepath.Join(dir, "nested", "flag.db")
	cfg := &config.Config{DBDriver: store.DriverSQLite, DBPath: filepath.Join(dir, "env.db")}

	dsn, err := resolveDSN(newFlagCmd(t, flag), cfg)
	require.NoError(t, err)
	assert.Equal(t, flag, dsn)
	assert.DirExists(t, filepath.Join(dir, "nested"))
}

func TestResolveDSNDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MATHMENTOR_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	dsn, err := resolveDSN(newFlagCmd(t, ""), &config.Config{DBDriver: store.DriverSQLite})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mathmentor", "mathmentor.db"), dsn)
}

func TestResolveDSNServerDriverNeedsDSN(t *testing.T) {
	_, err := resolveDSN(newFlagCmd(t, ""), &config.Config{DBDriver: store.DriverPostgres})
	assert.Error(t, err)

	dsn, err := resolveDSN(newFlagCmd(t, "postgres://u@localhost/mm"), &config.Config{DBDriver: store.DriverPostgres})
	require.NoError(t, err)
	assert.Equal(t, "postgres://u@localhost/mm", dsn)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "-", percent(0, 0))
	assert.Equal(t, "66%", percent(2, 3))
	assert.Equal(t, "100%", percent(4, 4))
}

func TestTableAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	tbl := newTable(&buf, "Topic", "Answered")
	tbl.row("Addition", 12)
	tbl.row("Fractions", 3)
	require.NoError(t, tbl.footer("TOTAL", 15))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 6)
	col := strings.Index(lines[0], "Answered")
	assert.Equal(t, col, strings.Index(lines[2], "12"))
	assert.Equal(t, col, strings.Index(lines[5], "15"))
}

func TestPrintModelCostMarksUnpriced(t *testing.T) {
	var buf bytes.Buffer
	err := printModelCost(&buf, []store.ModelUsage{
		{Model: "gpt-4o-mini", Calls: 2, InputTokens: 1000, OutputTokens: 500},
		{Model: "homegrown-7b", Calls: 1, InputTokens: 10, OutputTokens: 10},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "TOTAL (partial)")
	assert.Contains(t, buf.String(), "No pricing for: homegrown-7b")
}

func TestPrintLLMEvents(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printLLMEvents(&buf, nil))
	assert.Equal(t, "No LLM calls recorded.\n", buf.String())

	buf.Reset()
	require.NoError(t, printLLMEvents(&buf, []store.LLMRequestEvent{{
		ID:        7,
		Timestamp: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		LLMRequestEventData: store.LLMRequestEventData{
			Purpose: "hints", Model: "claude-haiku-4-5-20251001", Success: false,
		},
	}}))
	assert.Contains(t, buf.String(), "hints")
	assert.Contains(t, buf.String(), " no")
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "abcd…", clip("abcdefgh", 5))
}

func TestBuildVersionPrefersLinkerValue(t *testing.T) {
	old := version
	t.Cleanup(func() { version = old })

	version = "v1.4.0"
	assert.Equal(t, "v1.4.0", buildVersion())

	version = ""
	assert.NotEmpty(t, buildVersion())
}
