package cmd

import (
	"github.com/huangsam/scholar/core"
	"github.com/huangsam/scholar/internal/contract"
	"github.com/spf13/cobra"
)

// enhanceCmd fills missing auxiliary fields without scoring.
var enhanceCmd = &cobra.Command{
	Use:   "enhance <dataset>",
	Short: "Fill missing auxiliary fields and write the enhanced dataset.",
	Long: `Run only the enhancer: every applicant keeps the fields it already has and
receives drawn values for the missing auxiliary fields.

Drawn fields are listed per applicant so the enhanced dataset stays auditable.
With --seed the draws are reproducible and, when a cache backend is configured,
cached for later scoring runs.

Examples:
  # Preview the enhanced dataset
  scholar enhance students.csv --seed 42 --limit 10

  # Save it as Parquet for scoring elsewhere
  scholar enhance students.csv --seed 42 --output parquet --output-file enhanced.parquet`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteEnhance(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot enhance dataset", err)
		}
	},
}
