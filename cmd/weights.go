package cmd

import (
	"github.com/huangsam/scholar/core"
	"github.com/huangsam/scholar/internal/contract"
	"github.com/spf13/cobra"
)

// weightsCmd displays the active scoring formulas.
var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Display the scoring formulas, weights, thresholds and awards",
	Long: `Show the formulas of the active scoring configuration.

Provides complete transparency into how applicants are ranked, including:
- Category weights and the final score formula
- Sub-factor weights per category, with inverted need-based factors marked
- Tier thresholds and award amounts
- Custom weights if configured via flags or .scholar.yaml

No dataset is read - this is purely informational.

Examples:
  # Show the default model
  scholar weights

  # Validate a custom configuration
  scholar weights --config .scholar.yaml`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteWeights(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot display weights", err)
		}
	},
}
