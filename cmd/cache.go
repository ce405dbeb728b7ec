package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear cached runs",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := st.RunRepo().List(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return writeJSON(cmd, runs)
		}
		newPrinter(cmd).Runs(runs)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached run",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.RunRepo().Clear(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached runs\n", n)
		return nil
	},
}

func init() {
	cacheListCmd.Flags().Int("limit", 20, "Maximum number of runs to list (0 = all)")

	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
