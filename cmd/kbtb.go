package cmd

import (
	"github.com/spf13/cobra"
)

var kbtbCmd = &cobra.Command{
	Use:   "kbtb <export>",
	Short: "Score how well a test matches its type and difficulty targets",
	Long: "kbtb computes the balance coefficient of a test: 1 minus the weighted\n" +
		"deviation of its open/closed and easy/medium/hard shares from the targets,\n" +
		"the share of questions needing revision and the shortfall against\n" +
		"--min-questions. Targets are percentages and are normalized per group.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := runPipeline(cmd, args[0], "")
		if err != nil {
			return err
		}
		if wantJSON(cmd) {
			return writeJSON(cmd, res.Balance)
		}
		newPrinter(cmd).Balance(res.Balance)
		return nil
	},
}

func init() {
	t := cfg.Params().Targets
	kbtbCmd.Flags().Float64("open", t.Open, "Target share of open questions, percent")
	kbtbCmd.Flags().Float64("closed", t.Closed, "Target share of closed questions, percent")
	kbtbCmd.Flags().Float64("easy", t.Easy, "Target share of easy questions, percent")
	kbtbCmd.Flags().Float64("medium", t.Medium, "Target share of medium questions, percent")
	kbtbCmd.Flags().Float64("hard", t.Hard, "Target share of hard questions, percent")
	kbtbCmd.Flags().Int("min-questions", t.MinQuestions, "Question count below which the score is penalized (0 disables)")
	kbtbCmd.Flags().Float64("discrimination-floor", cfg.Revision.DiscriminationFloor, "Discrimination below which a question needs revision")
	kbtbCmd.Flags().Float64("easiest-share", cfg.Revision.EasiestShare, "Share of the easiest questions counted as needing revision")
}
