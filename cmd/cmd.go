// Package cmd defines the command-line interface for ration.
package cmd

import (
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/contract"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(formulateCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(nutrientsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("catalog", "", "Ingredient catalog file (yaml, json or csv). Defaults to the built-in dairy table")
	rootCmd.PersistentFlags().Bool("percent", false, "Catalog nutrient values are percentages instead of fractions")
	rootCmd.PersistentFlags().Float64P("target-mass", "m", schema.DefaultTargetMass, "Total ration mass in kg")
	rootCmd.PersistentFlags().StringP("profile", "p", schema.DefaultProfileName, "Requirement profile to formulate")
	rootCmd.PersistentFlags().StringP("require", "r", "", "Requirement overrides (format: 'cp=0.18,ca=0.7%')")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for nutrient percentages")
	rootCmd.PersistentFlags().String("currency", contract.DefaultCurrency, "Currency symbol for costs")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent solver runs for batch")
	rootCmd.PersistentFlags().String("solver-timeout", contract.DefaultSolverTimeout.String(), "Time budget per solver run (e.g. 10s, 500ms)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.SQLiteBackend), "History backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("metrics-file", "", "Write Prometheus metrics to this file on exit")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Diagnostic log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-file", "", "Write diagnostic logs as JSON to this rotating file")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
