package cmd

import (
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match <export> <bank>",
	Short: "Match bank questions to analytics rows",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := runPipeline(cmd, args[0], args[1])
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return writeJSON(cmd, res.Matching)
		}
		newPrinter(cmd).Matching(res.Matching)
		return nil
	},
}

func init() {
	addCategorizeFlags(matchCmd)
}
