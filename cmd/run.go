package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/banksort/internal/pipeline"
	"github.com/abhisek/banksort/internal/report"
	"github.com/abhisek/banksort/internal/store"
)

// runPipeline reads the artifacts, runs them through the pipeline and
// stores the result unless --no-cache is set.
func runPipeline(cmd *cobra.Command, exportPath, bankPath string) (*pipeline.Result, error) {
	params := paramsFromFlags(cmd)
	in, err := readInput(exportPath, bankPath, params.MaxInputBytes)
	if err != nil {
		return nil, err
	}

	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	var repo store.RunRepo
	if noCache, _ := cmd.Flags().GetBool("no-cache"); !noCache {
		st, err := openStore(cmd)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		repo = st.RunRepo()
		opts = append(opts, pipeline.WithCache(repo))
	}

	res, err := pipeline.New(params, opts...).Run(cmd.Context(), in)
	if err != nil {
		return nil, err
	}
	if repo != nil {
		if err := repo.Prune(cmd.Context(), cfg.Cache.KeepRuns); err != nil {
			logger.Warn("prune runs failed", zap.Error(err))
		}
	}
	return res, nil
}

func readInput(exportPath, bankPath string, limit int64) (pipeline.Input, error) {
	var in pipeline.Input
	exp, err := readFile(exportPath, limit)
	if err != nil {
		return in, err
	}
	in.ExportName, in.Export = filepath.Base(exportPath), exp
	if bankPath != "" {
		bk, err := readFile(bankPath, limit)
		if err != nil {
			return in, err
		}
		in.BankName, in.Bank = filepath.Base(bankPath), bk
	}
	return in, nil
}

// readFile refuses oversized files before reading them.
func readFile(path string, limit int64) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if limit > 0 && info.Size() > limit {
		return nil, fmt.Errorf("%s: %d bytes exceeds %d: %w", path, info.Size(), limit, pipeline.ErrInputTooLarge)
	}
	return os.ReadFile(path)
}

// paramsFromFlags starts from the configuration and applies every
// threshold flag the command defines and the user set.
func paramsFromFlags(cmd *cobra.Command) pipeline.Params {
	p := cfg.Params()
	flags := cmd.Flags()
	float := func(name string, dst ...*float64) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			v, _ := flags.GetFloat64(name)
			for _, d := range dst {
				*d = v
			}
		}
	}
	float("threshold", &p.Matching.Threshold)
	float("easy-threshold", &p.Categorize.EasyThreshold)
	float("discrimination-floor", &p.Categorize.DiscriminationFloor, &p.Balance.DiscriminationFloor)
	float("easiest-share", &p.Categorize.EasiestShare, &p.Balance.EasiestShare)
	float("min-attempts", &p.Categorize.MinAttemptsFloor)
	float("open", &p.Targets.Open)
	float("closed", &p.Targets.Closed)
	float("easy", &p.Targets.Easy)
	float("medium", &p.Targets.Medium)
	float("hard", &p.Targets.Hard)
	if f := flags.Lookup("min-questions"); f != nil && f.Changed {
		p.Targets.MinQuestions, _ = flags.GetInt("min-questions")
	}
	return p
}

func addCategorizeFlags(cmd *cobra.Command) {
	d := cfg.Params()
	cmd.Flags().Float64("threshold", d.Matching.Threshold, "Minimum similarity for a bank question to match")
	cmd.Flags().Float64("easy-threshold", d.Categorize.EasyThreshold, "Difficulty percentage at which a question is easy")
	cmd.Flags().Float64("discrimination-floor", d.Categorize.DiscriminationFloor, "Discrimination below which a question needs revision")
	cmd.Flags().Float64("easiest-share", d.Categorize.EasiestShare, "Share of the easiest questions sent to revision")
	cmd.Flags().Float64("min-attempts", d.Categorize.MinAttemptsFloor, "Lowest attempts floor")
}

func newPrinter(cmd *cobra.Command) *report.Printer {
	w := cmd.OutOrStdout()
	noColor, _ := cmd.Flags().GetBool("no-color")
	color := !noColor && os.Getenv("NO_COLOR") == "" && isTerminal(w)
	return report.New(w, color)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func wantJSON(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
