package cmd

import (
	"github.com/huangsam/scholar/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [dataset]",
	Short: "Start the Scholar MCP server",
	Long: `Launch an MCP server on stdio that allows AI agents to rank, explain and
summarize applicants via standard tools. The optional dataset becomes the
default for tools called without a dataset_path. Runs started from MCP are
not recorded in the run history.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
