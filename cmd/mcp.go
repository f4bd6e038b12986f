package cmd

import (
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Short:   "Start the ration MCP server",
	Long:    `Launch an MCP server on stdio that allows AI agents to formulate rations and browse catalogs via standard tools.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, historyManager, version)
	},
}
