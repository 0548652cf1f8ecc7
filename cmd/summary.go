package cmd

import (
	"github.com/huangsam/scholar/core"
	"github.com/huangsam/scholar/internal/contract"
	"github.com/spf13/cobra"
)

// summaryCmd shows the tier distribution of a scored cohort.
var summaryCmd = &cobra.Command{
	Use:   "summary <dataset>",
	Short: "Summarize how many applicants fall in each tier and the total awarded.",
	Long: `Score a dataset and report the distribution of the cohort across tiers.

Shows, per tier, the number of applicants, their share of the cohort and the
total award amount, followed by the overall total and the mean final score.

Examples:
  # Budget check with the default thresholds
  scholar summary students.csv --seed 42

  # What if the full scholarship threshold were raised?
  scholar summary students.csv --seed 42 --full-threshold 85`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot summarize applicants", err)
		}
	},
}
