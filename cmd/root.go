package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/core"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/contract"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/history"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// historyManager is the global history manager instance.
var historyManager contract.HistoryManager

// logger is the structured diagnostic logger, replaced once the log level is known.
var logger = zap.NewNop()

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "ration",
	Short:              "Formulate least-cost animal feed rations.",
	Long:               `Ration mixes the cheapest blend of ingredients that meets the minimum nutrient fractions of a livestock diet.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Check if a specific config file is provided
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".ration")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	// Set environment variable prefix
	viper.SetEnvPrefix("RATION")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Set defaults in Viper
	viper.SetDefault("target-mass", schema.DefaultTargetMass)
	viper.SetDefault("profile", schema.DefaultProfileName)
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("currency", contract.DefaultCurrency)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("solver-timeout", contract.DefaultSolverTimeout.String())
	viper.SetDefault("history-backend", schema.SQLiteBackend)
	viper.SetDefault("history-db-connect", "")
	viper.SetDefault("log-level", contract.DefaultLogLevel)
	viper.SetDefault("color", "yes")
}

// readConfigFile merges the config file into Viper. A missing file is not an error.
func readConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// sharedSetup unmarshals config and runs validation.
func sharedSetup(ctx context.Context, cmd *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := readConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	// Compared by name: batchCmd itself uses this setup as its PreRunE.
	if cmd != nil && cmd.Name() == "batch" {
		input.BatchProfiles = args
	}

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 5. Diagnostic logging goes to stderr or the rotating log file.
	logger = contract.NewLogger(cfg.LogLevel, cfg.LogFile)
	rootCtx = core.WithLogger(ctx, logger)

	// 6. Initialize history tracking with validated config
	if err := history.InitHistory(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	historyManager = history.Manager

	logger.Debug("configuration loaded",
		zap.String("config_file", viper.ConfigFileUsed()),
		zap.String("profile", cfg.ProfileName),
		zap.String("history_backend", string(cfg.HistoryBackend)),
		zap.Int("workers", cfg.Workers))
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// Shutdown writes the metrics file and releases the history store and logger.
func Shutdown() {
	if err := core.FlushMetrics(cfg); err != nil {
		contract.LogWarn("Failed to write metrics file", err)
	}
	history.CloseHistory()
	_ = logger.Sync()
}
