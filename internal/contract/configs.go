package contract

import (
	"fmt"
	"maps"
	"math"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
	"go.uber.org/zap/zapcore"
)

// Default values for configuration.
const (
	DefaultPrecision     = 2
	MaxPrecision         = 4
	DefaultCurrency      = "R$"
	DefaultSolverTimeout = 10 * time.Second
	DefaultLogLevel      = "warn"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for a formulation.
// This struct remains the "final, validated" config.
type Config struct {
	CatalogPath  string // empty means the built-in dairy table
	PercentUnits bool   // catalog nutrient values are percentages

	TargetMass   float64
	ProfileName  string
	Requirements schema.Requirements // resolved for ProfileName, overrides applied

	// Profiles maps every known profile name to its requirements
	Profiles map[string]schema.Requirements

	// BatchProfiles lists the profiles formulated by the batch command, in order
	BatchProfiles []string

	Output     schema.OutputMode
	OutputFile string
	Precision  int // decimal places for nutrient percentages
	Currency   string
	UseColors  bool
	Width      int // Terminal width override (0 = auto-detect)

	Workers       int
	SolverTimeout time.Duration

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	MetricsFile string

	LogLevel zapcore.Level
	LogFile  string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	BatchProfiles []string

	// --- Fields from rootCmd.PersistentFlags() ---
	Catalog          string  `mapstructure:"catalog"`
	Percent          bool    `mapstructure:"percent"`
	TargetMass       float64 `mapstructure:"target-mass"`
	Profile          string  `mapstructure:"profile"`
	Require          string  `mapstructure:"require"`
	Output           string  `mapstructure:"output"`
	OutputFile       string  `mapstructure:"output-file"`
	Precision        int     `mapstructure:"precision"`
	Currency         string  `mapstructure:"currency"`
	Color            string  `mapstructure:"color"`
	Width            int     `mapstructure:"width"`
	Workers          int     `mapstructure:"workers"`
	SolverTimeout    string  `mapstructure:"solver-timeout"`
	HistoryBackend   string  `mapstructure:"history-backend"`
	HistoryDBConnect string  `mapstructure:"history-db-connect"`
	MetricsFile      string  `mapstructure:"metrics-file"`
	LogLevel         string  `mapstructure:"log-level"`
	LogFile          string  `mapstructure:"log-file"`

	// --- Requirement profiles from config file ---
	Profiles map[string]map[string]float64 `mapstructure:"profiles"`

	// --- Overrides for the selected profile from config file ---
	Requirements map[string]float64 `mapstructure:"requirements"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Requirements = slices.Clone(c.Requirements)
	clone.BatchProfiles = slices.Clone(c.BatchProfiles)
	if c.Profiles != nil {
		clone.Profiles = make(map[string]schema.Requirements, len(c.Profiles))
		for name, reqs := range c.Profiles {
			clone.Profiles[name] = slices.Clone(reqs)
		}
	}
	return &clone
}

// ProfileNames returns the known profile names in sorted order.
func (c *Config) ProfileNames() []string {
	return slices.Sorted(maps.Keys(c.Profiles))
}

// RationSpec returns the ration spec for the configured target mass.
func (c *Config) RationSpec() schema.RationSpec {
	return schema.RationSpec{TargetTotalMass: c.TargetMass}
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processProfiles(cfg, input); err != nil {
		return err
	}
	if err := processRequirements(cfg, input); err != nil {
		return err
	}
	return processBatchProfiles(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the history backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// validateSimpleInputs processes and validates all non-requirement fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.CatalogPath = strings.TrimSpace(input.Catalog)
	cfg.PercentUnits = input.Percent
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.MetricsFile = input.MetricsFile
	cfg.LogFile = input.LogFile

	cfg.Currency = input.Currency
	if cfg.Currency == "" {
		cfg.Currency = DefaultCurrency
	}

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Target mass ---
	if !(input.TargetMass > 0) || math.IsInf(input.TargetMass, 1) {
		return fmt.Errorf("target-mass must be a positive number (received %g)", input.TargetMass)
	}
	cfg.TargetMass = input.TargetMass

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Solver timeout ---
	cfg.SolverTimeout = DefaultSolverTimeout
	if input.SolverTimeout != "" {
		d, err := time.ParseDuration(input.SolverTimeout)
		if err != nil {
			return fmt.Errorf("invalid solver-timeout '%s': %w", input.SolverTimeout, err)
		}
		if d < 0 {
			return fmt.Errorf("solver-timeout cannot be negative (received %s)", d)
		}
		cfg.SolverTimeout = d
	}

	// --- 4. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 5. Log level ---
	levelStr := input.LogLevel
	if levelStr == "" {
		levelStr = DefaultLogLevel
	}
	level, err := zapcore.ParseLevel(levelStr)
	if err != nil {
		return fmt.Errorf("invalid log-level '%s': %w", input.LogLevel, err)
	}
	cfg.LogLevel = level

	return nil
}

// processProfiles merges the built-in profiles with the ones from the config file.
// A config profile with a built-in name replaces it entirely.
func processProfiles(cfg *Config, input *ConfigRawInput) error {
	cfg.Profiles = schema.DefaultProfiles()
	for name, raw := range input.Profiles {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("profile names cannot be empty")
		}
		reqs, err := ParseRequirementMap(raw)
		if err != nil {
			return fmt.Errorf("invalid profile %q: %w", name, err)
		}
		cfg.Profiles[name] = reqs
	}
	return nil
}

// processRequirements resolves the selected profile and applies the config file
// requirements followed by the --require overrides.
func processRequirements(cfg *Config, input *ConfigRawInput) error {
	cfg.ProfileName = strings.TrimSpace(input.Profile)
	if cfg.ProfileName == "" {
		cfg.ProfileName = schema.DefaultProfileName
	}
	reqs, ok := cfg.Profiles[cfg.ProfileName]
	if !ok {
		return fmt.Errorf("unknown profile '%s'. must be one of %s", cfg.ProfileName, strings.Join(cfg.ProfileNames(), ", "))
	}

	fromFile, err := ParseRequirementMap(input.Requirements)
	if err != nil {
		return fmt.Errorf("invalid requirements: %w", err)
	}
	for _, r := range fromFile {
		reqs = reqs.With(r.Nutrient, r.MinimumFraction)
	}

	overrides, err := ParseRequirementOverrides(input.Require)
	if err != nil {
		return fmt.Errorf("invalid --require format: %w", err)
	}
	for _, r := range overrides {
		reqs = reqs.With(r.Nutrient, r.MinimumFraction)
	}

	cfg.Requirements = slices.Clone(reqs)
	return nil
}

// processBatchProfiles validates the profiles named on the batch command line.
// No names means every known profile.
func processBatchProfiles(cfg *Config, input *ConfigRawInput) error {
	if len(input.BatchProfiles) == 0 {
		cfg.BatchProfiles = cfg.ProfileNames()
		return nil
	}
	cfg.BatchProfiles = make([]string, 0, len(input.BatchProfiles))
	seen := make(map[string]struct{}, len(input.BatchProfiles))
	for _, name := range input.BatchProfiles {
		name = strings.TrimSpace(name)
		if _, ok := cfg.Profiles[name]; !ok {
			return fmt.Errorf("unknown profile '%s'. must be one of %s", name, strings.Join(cfg.ProfileNames(), ", "))
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		cfg.BatchProfiles = append(cfg.BatchProfiles, name)
	}
	return nil
}

// ParseRequirementMap converts a nutrient-keyed map from the config file into requirements
// in canonical nutrient order. Keys accept nutrient identifiers and short codes.
func ParseRequirementMap(raw map[string]float64) (schema.Requirements, error) {
	parsed := make(map[schema.Nutrient]float64, len(raw))
	for key, value := range raw {
		n, ok := schema.ParseNutrient(key)
		if !ok {
			return nil, fmt.Errorf("unknown nutrient '%s'", key)
		}
		if _, dup := parsed[n]; dup {
			return nil, fmt.Errorf("nutrient %s is given more than once", n)
		}
		if err := validateFraction(n, value); err != nil {
			return nil, err
		}
		parsed[n] = value
	}
	return schema.RequirementsFromMap(parsed), nil
}

// ParseRequirementOverrides parses a string like "crude_protein=0.18,ca=0.7%"
// into requirements, in the order given. A trailing '%' divides the value by 100.
func ParseRequirementOverrides(s string) (schema.Requirements, error) {
	var reqs schema.Requirements
	if strings.TrimSpace(s) == "" {
		return reqs, nil
	}

	parts := strings.SplitSeq(s, ",")
	for part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		keyValue := strings.Split(part, "=")
		if len(keyValue) != 2 {
			return nil, fmt.Errorf("invalid requirement format '%s', expected 'nutrient=value'", part)
		}

		key := strings.TrimSpace(keyValue[0])
		n, ok := schema.ParseNutrient(key)
		if !ok {
			return nil, fmt.Errorf("unknown nutrient '%s'", key)
		}
		if _, dup := reqs.Get(n); dup {
			return nil, fmt.Errorf("nutrient %s is given more than once", n)
		}

		valueStr := strings.TrimSpace(keyValue[1])
		percent := strings.HasSuffix(valueStr, "%")
		value, err := strconv.ParseFloat(strings.TrimSuffix(valueStr, "%"), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value '%s' for nutrient %s: %w", valueStr, n, err)
		}
		if percent {
			value /= 100
		}
		if err := validateFraction(n, value); err != nil {
			return nil, err
		}

		reqs = append(reqs, schema.NutrientRequirement{Nutrient: n, MinimumFraction: value})
	}

	return reqs, nil
}

func validateFraction(n schema.Nutrient, value float64) error {
	if !(value >= 0 && value <= 1) {
		return fmt.Errorf("minimum fraction for %s must be between 0 and 1 (received %g)", n, value)
	}
	return nil
}
