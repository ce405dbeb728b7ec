package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime/debug"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/banksort/internal/balance"
	"github.com/abhisek/banksort/internal/categorize"
)

// resetFlags restores every flag to its default so runs don't leak state.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("BANKSORT_DB", "")

	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.ExecuteContext(context.Background()), errOut.String())
	return out.String()
}

func TestAnalyze(t *testing.T) {
	out := execute(t, "analyze", "testdata/export.csv", "--no-cache", "--no-color")
	assert.Contains(t, out, "questions: 3")
	assert.Contains(t, out, "Duplicates (1)")
	assert.Contains(t, out, "1.1, 2.1")
}

func TestMatch(t *testing.T) {
	out := execute(t, "match", "testdata/export.csv", "testdata/bank.txt", "--no-cache", "--no-color")
	assert.Contains(t, out, "Matching (3/4)")
	assert.Contains(t, out, "Вопрос 4")
	assert.Contains(t, out, "not found")
}

func TestCategorize_JSON(t *testing.T) {
	out := execute(t, "categorize", "testdata/export.csv", "testdata/bank.txt", "--no-cache", "--json")

	var res categorize.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2, res.Count(categorize.Revision))
	assert.Equal(t, 2, res.Count(categorize.MediumHardClosed))
	assert.Equal(t, []string{"Вопрос 1"}, res.Easiest)
}

func TestKBTB_TargetFlags(t *testing.T) {
	out := execute(t, "kbtb", "testdata/export.csv", "--no-cache", "--json", "--open", "50", "--closed", "50")

	var res balance.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.InDelta(t, 0.5, res.Target.Open, 1e-9)
	assert.InDelta(t, 0.3, res.Target.Easy, 1e-9, "unchanged targets keep their defaults")
	assert.Equal(t, 3, res.Breakdown.N)
}

func TestGenerate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sorted.txt")
	out := execute(t, "generate", "testdata/export.csv", "testdata/bank.txt", "--no-cache", "-o", path)
	assert.Contains(t, out, "Wrote 4 questions")
	assert.Contains(t, out, "1 questions had no analytics")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "$CATEGORY: $course$/top/Персонал/3 На переделку")
}

func TestCache(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	execute(t, "analyze", "testdata/export.csv", "--db", db, "--no-color")
	out := execute(t, "cache", "list", "--db", db, "--no-color")
	assert.Contains(t, out, "Runs (1)")
	assert.Contains(t, out, "export.csv")

	out = execute(t, "cache", "clear", "--db", db)
	assert.Contains(t, out, "Removed 1 cached runs")

	out = execute(t, "cache", "list", "--db", db, "--no-color")
	assert.Contains(t, out, "Runs (0)")
}

func TestVersion(t *testing.T) {
	assert.Contains(t, execute(t, "version"), "banksort (devel)")
}

func TestVersionLine(t *testing.T) {
	assert.Equal(t, "banksort (devel)", versionLine(nil))

	info := &debug.BuildInfo{
		GoVersion: "go1.25.6",
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "4b304240aab7c0ffee"},
			{Key: "vcs.modified", Value: "true"},
		},
	}
	assert.Equal(t, "banksort (devel) (4b304240aab7-dirty, go1.25.6)", versionLine(info))
	assert.Equal(t, "banksort (devel) (go1.25.6)", versionLine(&debug.BuildInfo{GoVersion: "go1.25.6"}))
}
