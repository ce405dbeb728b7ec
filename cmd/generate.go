package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate <export> <bank>",
	Short: "Write the bank back out sorted into categories",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := runPipeline(cmd, args[0], args[1])
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("output")
		if out == "" || out == "-" {
			_, err := fmt.Fprint(cmd.OutOrStdout(), res.Generated)
			return err
		}
		if err := os.WriteFile(out, []byte(res.Generated), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d questions to %s\n", len(res.Bank.Questions), out)
		if n := len(res.Matching.Unmatched); n > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%d questions had no analytics and were sorted with default values\n", n)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	addCategorizeFlags(generateCmd)
}
