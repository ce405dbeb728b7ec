package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/banksort/internal/analytics"
	"github.com/abhisek/banksort/internal/balance"
	"github.com/abhisek/banksort/internal/qtype"
	"github.com/abhisek/banksort/internal/stats"
)

// isolate points the config search paths at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 70.0, cfg.EasyThreshold)
	assert.Equal(t, 0.90, cfg.SimilarityThreshold)
	assert.Equal(t, 30.0, cfg.MinAttemptsFloor)
	assert.Equal(t, 0.3, cfg.Revision.DiscriminationFloor)
	assert.Equal(t, 0.1, cfg.Revision.EasiestShare)
	assert.Equal(t, TypeTargets{Open: 40, Closed: 60}, cfg.Targets.Type)
	assert.Equal(t, LevelTargets{Easy: 30, Medium: 50, Hard: 20}, cfg.Targets.Level)
	assert.Equal(t, int64(32<<20), cfg.MaxInputBytes)
	assert.Equal(t, 10, cfg.Cache.KeepRuns)
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, `
similarity_threshold: 0.8
revision:
  easiest_share: 0.2
targets:
  type:
    open: 50
    closed: 50
  min_questions: 40
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.8, cfg.SimilarityThreshold)
	assert.Equal(t, 0.2, cfg.Revision.EasiestShare)
	assert.Equal(t, 0.3, cfg.Revision.DiscriminationFloor, "unset keys keep defaults")
	assert.Equal(t, TypeTargets{Open: 50, Closed: 50}, cfg.Targets.Type)
	assert.Equal(t, 40, cfg.Targets.MinQuestions)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_SearchPath(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "xdg", "banksort", "banksort.yaml"), "easy_threshold: 75\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 75.0, cfg.EasyThreshold)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("BANKSORT_SIMILARITY_THRESHOLD", "0.75")
	t.Setenv("BANKSORT_TARGETS_LEVEL_HARD", "35")
	t.Setenv("BANKSORT_CACHE_KEEP_RUNS", "3")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0.75, cfg.SimilarityThreshold)
	assert.Equal(t, 35.0, cfg.Targets.Level.Hard)
	assert.Equal(t, 3, cfg.Cache.KeepRuns)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	// Registers restoration of the unset state once godotenv sets it.
	t.Setenv("BANKSORT_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("BANKSORT_LOG_LEVEL"))
	writeFile(t, filepath.Join(dir, ".env"), "BANKSORT_LOG_LEVEL=error\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoad_DotEnvDoesNotOverride(t *testing.T) {
	dir := isolate(t)
	t.Setenv("BANKSORT_LOG_LEVEL", "info")
	writeFile(t, filepath.Join(dir, ".env"), "BANKSORT_LOG_LEVEL=error\n")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"threshold above one", "similarity_threshold: 1.5\n"},
		{"zero threshold", "similarity_threshold: 0\n"},
		{"easy above hundred", "easy_threshold: 120\n"},
		{"negative target", "targets:\n  level:\n    easy: -1\n"},
		{"unknown log level", "log:\n  level: verbose\n"},
		{"keep no runs", "cache:\n  keep_runs: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "bad.yaml")
			writeFile(t, path, tt.yaml)

			_, err := Load(path)
			require.Error(t, err)
			var verr *ValidationError
			assert.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
		})
	}
}

func TestValidate_Default(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestParams(t *testing.T) {
	cfg := Default()
	cfg.EasyThreshold = 65
	cfg.SimilarityThreshold = 0.85
	cfg.MinAttemptsFloor = 20
	cfg.Revision = RevisionConfig{DiscriminationFloor: 0.25, EasiestShare: 0.15}
	cfg.Targets = TargetsConfig{
		Type:         TypeTargets{Open: 30, Closed: 70},
		Level:        LevelTargets{Easy: 20, Medium: 60, Hard: 20},
		MinQuestions: 50,
	}
	cfg.MaxInputBytes = 1024

	p := cfg.Params()
	assert.Equal(t, 65.0, p.Categorize.EasyThreshold)
	assert.Equal(t, 0.25, p.Categorize.DiscriminationFloor)
	assert.Equal(t, 0.15, p.Categorize.EasiestShare)
	assert.Equal(t, 20.0, p.Categorize.MinAttemptsFloor)
	assert.Equal(t, 0.85, p.Matching.Threshold)
	assert.Equal(t, 30.0, p.Targets.Open)
	assert.Equal(t, 60.0, p.Targets.Medium)
	assert.Equal(t, 50, p.Targets.MinQuestions)
	assert.Equal(t, 0.25, p.Balance.DiscriminationFloor)
	assert.Equal(t, stats.EasyLevel, p.Balance.EasyLevel, "balance levels stay fixed")
	assert.Equal(t, int64(1024), p.MaxInputBytes)
}

func TestParams_EasyThresholdLeavesBalanceLevels(t *testing.T) {
	qs := make([]analytics.Question, 10)
	for i := range qs {
		qs[i] = analytics.Question{
			ID:             fmt.Sprintf("1.%d", i+1),
			Type:           qtype.MultiChoice,
			Difficulty:     "75",
			Discrimination: "50",
		}
	}
	want := balance.Tally(qs, Default().Params().Balance)

	cfg := Default()
	cfg.EasyThreshold = 80
	got := balance.Tally(qs, cfg.Params().Balance)

	assert.Equal(t, want, got)
	assert.Equal(t, 9, got.Easy, "75 is easy on the fixed 70/40 split")
	assert.Equal(t, 1, got.Rework)
}
