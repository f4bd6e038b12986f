package cmd

import (
	"fmt"
	"os"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/contract"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/history"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadHistoryConfig reads the history backend settings without the full shared setup.
func loadHistoryConfig() error {
	if err := readConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("history-backend"))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("history-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	cfg.Currency = viper.GetString("currency")
	return nil
}

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need history access without catalog or profile validation.
func historySetup(_ *cobra.Command, _ []string) error {
	if err := loadHistoryConfig(); err != nil {
		return err
	}
	if err := history.InitHistory(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	return nil
}

// historyMigrateSetup loads the history settings but does NOT initialize the store,
// allowing migrations to run on a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	if err := loadHistoryConfig(); err != nil {
		return err
	}
	if cfg.HistoryBackend == schema.SQLiteBackend && cfg.HistoryDBConnect == "" {
		cfg.HistoryDBConnect = history.GetHistoryDBFilePath()
	}
	return nil
}

// historyDBFilePath is the SQLite file removed by 'history clear'.
func historyDBFilePath() string {
	if cfg.HistoryBackend == schema.SQLiteBackend && cfg.HistoryDBConnect != "" {
		return cfg.HistoryDBConnect
	}
	return history.GetHistoryDBFilePath()
}

// historyCmd focused on formulation history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the formulation history and its exports",
	Long: `Manage the record of past formulations.

Every formulate and batch run stores:
- Run metadata (profile, target mass, timestamps, duration, configuration)
- Outcome (status, total cost, solver optimum or error message)
- The blend lines of successful runs

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show history statistics
  export  - Export runs and blend lines to Parquet
  clear   - Remove all history data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  ration history status

  # Export for analysis in pandas/DuckDB
  ration history export --output-file rations`,
}

// historyClearCmd clears the formulation history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all formulation history",
	Long: `Delete all stored formulation runs and blend lines.

For SQLite the database file is removed; for MySQL and PostgreSQL the history tables
are dropped.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  ration history export --output-file backup
  ration history clear`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadHistoryConfig()
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.ClearHistory(cfg.HistoryBackend, historyDBFilePath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("Formulation history cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display formulation history statistics and connection details",
	Long: `Show information about the formulation history.

Displays:
- Backend type and connection status
- Number of runs stored, split by outcome
- Last and oldest run timestamps
- Average total cost of successful runs
- Database table sizes

Examples:
  ration history status`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := history.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		history.PrintHistoryStatus(os.Stdout, status, cfg.Currency)
	},
}

// historyExportCmd exports the formulation history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export formulation history to Parquet for BI tools and analytics",
	Long: `Export all stored formulation data to Parquet.

Writes two files next to --output-file:
- <output-file>.formulation_runs.parquet - one row per run
- <output-file>.blend_lines.parquet - one row per ingredient of each successful run

Requires: --output-file parameter

Examples:
  ration history export --output-file rations
  duckdb -c "SELECT profile_name, avg(total_cost) FROM 'rations.formulation_runs.parquet' GROUP BY 1"`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.ExecuteHistoryExport(os.Stdout, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the formulation history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  ration history migrate

  # Roll back everything
  ration history migrate --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := history.MigrateHistory(os.Stdout, cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
