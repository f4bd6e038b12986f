package cmd

import (
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/core"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/contract"
	"github.com/spf13/cobra"
)

// catalogCmd lists the ingredients available to the formulator.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the ingredients of the catalog.",
	Long: `Print every ingredient with its unit price and nutrient fractions, in catalog order.

The CSV output can be edited and loaded back with --catalog.

Examples:
  # Show the built-in dairy table
  ration catalog

  # Start a custom feed table from the built-in one
  ration catalog --output csv --output-file feeds.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCatalog(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot list catalog", err)
		}
	},
}

// nutrientsCmd lists the requirement profiles.
var nutrientsCmd = &cobra.Command{
	Use:     "nutrients",
	Aliases: []string{"profiles"},
	Short:   "List the requirement profiles and their minimum nutrient fractions.",
	Long: `Print every known requirement profile: the built-in dairy profile plus the
'profiles' section of the config file.

Examples:
  ration nutrients
  ration nutrients --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteProfiles(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot list profiles", err)
		}
	},
}
