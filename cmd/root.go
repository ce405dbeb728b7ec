package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/banksort/internal/config"
	"github.com/abhisek/banksort/internal/logging"
	"github.com/abhisek/banksort/internal/store"
)

// Set by setup before any subcommand runs.
var (
	cfg      = config.Default()
	logger   = zap.NewNop()
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "banksort",
	Short: "Sort a question bank by its test analytics",
	Long: "banksort matches the questions of a test bank to the item analysis exported\n" +
		"after a test, sorts them into easy, medium/hard and revision categories,\n" +
		"scores the balance of the test and writes the bank back out.",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a YAML config file (default ./banksort.yaml, then $XDG_CONFIG_HOME/banksort/banksort.yaml)")
	pf.String("db", "", "Path to SQLite run cache (overrides BANKSORT_DB env var)")
	pf.String("log-level", "", "Log level: debug, info, warn or error")
	pf.Bool("no-cache", false, "Neither read nor store cached runs")
	pf.Bool("no-color", false, "Disable styled output")
	pf.Bool("json", false, "Print results as JSON")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(categorizeCmd)
	rootCmd.AddCommand(kbtbCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)

	cobra.OnFinalize(func() { _ = closeLog() })
}

// setup loads the configuration and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		c.Log.Level = lvl
	}

	l, closeFn, err := logging.New(logging.Options{
		Level:   c.Log.Level,
		File:    c.Log.File,
		Console: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	_ = closeLog()
	cfg, logger, closeLog = c, l, closeFn
	return nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured db (BANKSORT_DB env var or config file), then the
// default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}
