package cmd

import (
	"github.com/huangsam/scholar/core"
	"github.com/huangsam/scholar/internal/contract"
	"github.com/spf13/cobra"
)

// explainCmd shows the full score breakdown of one applicant.
var explainCmd = &cobra.Command{
	Use:   "explain <dataset>",
	Short: "Explain how one applicant's score, tier and award were computed.",
	Long: `Show every step of the scoring model for a single applicant.

For each category the breakdown lists the sub-factors with their raw value,
cohort-normalized value, inverted value (for need-based factors), weight and
contribution, followed by a description of each feature.

Select the applicant with exactly one of --id or --rank. Use the same --seed as
the ranking run so that synthesized values match.

Examples:
  # Explain an applicant by identifier
  scholar explain students.csv --id s-0042 --seed 42

  # Explain whoever ranked first
  scholar explain students.csv --rank 1 --seed 42

  # Machine-readable breakdown
  scholar explain students.csv --rank 3 --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteExplain(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot explain applicant", err)
		}
	},
}
