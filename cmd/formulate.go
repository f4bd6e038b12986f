package cmd

import (
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/core"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/contract"
	"github.com/spf13/cobra"
)

// formulateCmd computes the least-cost ration of one requirement profile.
var formulateCmd = &cobra.Command{
	Use:   "formulate",
	Short: "Compute the least-cost ration for a requirement profile.",
	Long: `Solve a linear program that picks how many kg of each ingredient to mix so that
the ration weighs exactly the target mass, meets every minimum nutrient fraction
and costs as little as possible.

Quantities and costs are rounded to 2 decimals and ingredients below 0.001 kg are
left out. The total cost is the sum of the rounded line costs.

Examples:
  # Formulate the built-in dairy ration (20 kg)
  ration formulate

  # Use your own feed table with values in percent
  ration formulate --catalog feeds.csv --percent

  # Raise crude protein to 18% for a 25 kg ration
  ration formulate --target-mass 25 --require cp=18%

  # Export the blend for a spreadsheet
  ration formulate --output csv --output-file ration.csv`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFormulate(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot formulate ration", err)
		}
	},
}

// batchCmd formulates several requirement profiles concurrently.
var batchCmd = &cobra.Command{
	Use:   "batch [profile...]",
	Short: "Formulate several requirement profiles at once.",
	Long: `Formulate every named profile against the same catalog and target mass, running
up to --workers solver runs at a time. Without arguments every known profile is
formulated. Results are reported in the order the profiles were given; a profile
that cannot be formulated is reported as failed without stopping the others.

The --require overrides and the config file 'requirements' apply only to the
'formulate' command; batch uses each profile as defined.

Examples:
  # Formulate all profiles of .ration.yaml
  ration batch

  # Compare two profiles side by side
  ration batch dairy heifer --output json`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteBatch(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot run batch formulation", err)
		}
	},
}
