package cmd

import (
	"github.com/spf13/cobra"
)

var categorizeCmd = &cobra.Command{
	Use:   "categorize <export> <bank>",
	Short: "Sort matched bank questions into categories",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := runPipeline(cmd, args[0], args[1])
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return writeJSON(cmd, res.Categories)
		}
		p := newPrinter(cmd)
		p.Categories(res.Categories)
		p.Balance(res.Balance)
		return nil
	},
}

func init() {
	addCategorizeFlags(categorizeCmd)
}
