package cmd

import (
	"github.com/huangsam/scholar/core"
	"github.com/huangsam/scholar/internal/contract"
	"github.com/spf13/cobra"
)

// rankCmd scores a dataset and ranks the applicants.
var rankCmd = &cobra.Command{
	Use:   "rank <dataset>",
	Short: "Rank applicants by final score with tier and award.",
	Long: `Score every applicant of a dataset and rank them from highest to lowest final score.

The dataset may be a .csv, .json or .parquet file. Only performance_index and
previous_scores are required; missing auxiliary fields (family income, parent
education, attendance, previous scholarship) are drawn by the enhancer and
marked as synthesized.

Each applicant gets:
- An Academic Merit, Financial Need and Engagement score (0-100)
- A weighted final score
- A tier (Full, Partial, Not Eligible) and the matching award

Examples:
  # Rank a dataset with reproducible synthesized values
  scholar rank students.csv --seed 42

  # Show only award recipients, top 20
  scholar rank students.csv --tier full,partial --limit 20

  # Include category scores and the top contributing factors
  scholar rank students.csv --detail --explain

  # Weight financial need more heavily
  scholar rank students.csv --category-weights academic:0.3,financial:0.5,engagement:0.2

  # Export for a spreadsheet
  scholar rank students.csv --output csv --output-file ranking.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRank(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot rank applicants", err)
		}
	},
}
