package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/banksort/internal/identity"
	"github.com/abhisek/banksort/internal/stats"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <export>",
	Short: "Summarize an analytics export and list merged duplicates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := runPipeline(cmd, args[0], "")
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return writeJSON(cmd, struct {
				Summary stats.Summary    `json:"summary"`
				Groups  []identity.Group `json:"groups"`
			}{res.Summary, res.Groups})
		}
		p := newPrinter(cmd)
		p.Summary(res.Summary)
		p.Duplicates(res.Groups)
		return nil
	},
}
