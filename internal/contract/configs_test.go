package contract

import (
	"testing"
	"time"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// validInput returns the raw input produced by the root command's flag defaults.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		TargetMass:     schema.DefaultTargetMass,
		Workers:        4,
		Precision:      DefaultPrecision,
		Output:         "text",
		Color:          "yes",
		HistoryBackend: string(schema.SQLiteBackend),
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", modify: func(*ConfigRawInput) {}},
		{name: "zero target mass", modify: func(in *ConfigRawInput) { in.TargetMass = 0 }, expectError: true},
		{name: "negative target mass", modify: func(in *ConfigRawInput) { in.TargetMass = -1 }, expectError: true},
		{name: "invalid workers (zero)", modify: func(in *ConfigRawInput) { in.Workers = 0 }, expectError: true},
		{name: "invalid precision (negative)", modify: func(in *ConfigRawInput) { in.Precision = -1 }, expectError: true},
		{name: "invalid precision (too high)", modify: func(in *ConfigRawInput) { in.Precision = 5 }, expectError: true},
		{name: "invalid output format", modify: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: true},
		{name: "parquet without file", modify: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: true},
		{name: "parquet with file", modify: func(in *ConfigRawInput) {
			in.Output = "parquet"
			in.OutputFile = "blend"
		}},
		{name: "invalid color", modify: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: true},
		{name: "invalid solver timeout", modify: func(in *ConfigRawInput) { in.SolverTimeout = "soon" }, expectError: true},
		{name: "negative solver timeout", modify: func(in *ConfigRawInput) { in.SolverTimeout = "-1s" }, expectError: true},
		{name: "invalid log level", modify: func(in *ConfigRawInput) { in.LogLevel = "loud" }, expectError: true},
		{name: "invalid history backend", modify: func(in *ConfigRawInput) { in.HistoryBackend = "oracle" }, expectError: true},
		{name: "mysql backend without connection string", modify: func(in *ConfigRawInput) {
			in.HistoryBackend = string(schema.MySQLBackend)
		}, expectError: true},
		{name: "postgresql backend without connection string", modify: func(in *ConfigRawInput) {
			in.HistoryBackend = string(schema.PostgreSQLBackend)
		}, expectError: true},
		{name: "mysql backend with connection string", modify: func(in *ConfigRawInput) {
			in.HistoryBackend = string(schema.MySQLBackend)
			in.HistoryDBConnect = "user:pass@tcp(localhost:3306)/ration"
		}},
		{name: "none backend", modify: func(in *ConfigRawInput) { in.HistoryBackend = string(schema.NoneBackend) }},
		{name: "unknown profile", modify: func(in *ConfigRawInput) { in.Profile = "poultry" }, expectError: true},
		{name: "bad require override", modify: func(in *ConfigRawInput) { in.Require = "calcium" }, expectError: true},
		{name: "require fraction above one", modify: func(in *ConfigRawInput) { in.Require = "tdn=1.5" }, expectError: true},
		{name: "unknown nutrient in requirements", modify: func(in *ConfigRawInput) {
			in.Requirements = map[string]float64{"sodium": 0.01}
		}, expectError: true},
		{name: "unknown batch profile", modify: func(in *ConfigRawInput) { in.BatchProfiles = []string{"dairy", "goat"} }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.modify(input)

			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)

			if tt.expectError {
				assert.Error(t, err, "contract.ProcessAndValidate should return an error for %s", tt.name)
			} else {
				assert.NoError(t, err, "contract.ProcessAndValidate should not return an error for %s", tt.name)
				// Basic validation that config was populated
				assert.Equal(t, input.TargetMass, cfg.TargetMass)
				assert.Equal(t, schema.DefaultProfileName, cfg.ProfileName)
			}
		})
	}
}

func TestProcessAndValidate_Defaults(t *testing.T) {
	cfg := &Config{}
	input := validInput()
	input.HistoryBackend = ""
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, schema.SQLiteBackend, cfg.HistoryBackend)
	assert.Equal(t, DefaultCurrency, cfg.Currency)
	assert.Equal(t, DefaultSolverTimeout, cfg.SolverTimeout)
	assert.Equal(t, zapcore.WarnLevel, cfg.LogLevel)
	assert.Equal(t, schema.DairyRequirements(), cfg.Requirements)
	assert.Equal(t, []string{"dairy"}, cfg.BatchProfiles)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, schema.RationSpec{TargetTotalMass: 20}, cfg.RationSpec())
}

func TestProcessAndValidate_RequirementLayers(t *testing.T) {
	cfg := &Config{}
	input := validInput()
	input.SolverTimeout = "250ms"
	input.Requirements = map[string]float64{"pb": 0.17, "calcium": 0.007}
	input.Require = "crude_protein=18%"

	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, 250*time.Millisecond, cfg.SolverTimeout)

	// --require beats the config file, which beats the profile
	cp, ok := cfg.Requirements.Get(schema.CrudeProtein)
	require.True(t, ok)
	assert.InDelta(t, 0.18, cp, 1e-12)
	ca, _ := cfg.Requirements.Get(schema.Calcium)
	assert.Equal(t, 0.007, ca)
	tdn, _ := cfg.Requirements.Get(schema.TDN)
	assert.Equal(t, 0.68, tdn)
	assert.Len(t, cfg.Requirements, 5)

	// the profile table itself is untouched
	profileCP, _ := cfg.Profiles["dairy"].Get(schema.CrudeProtein)
	assert.Equal(t, 0.16, profileCP)
}

func TestProcessAndValidate_ConfigProfiles(t *testing.T) {
	cfg := &Config{}
	input := validInput()
	input.Profile = "heifer"
	input.Profiles = map[string]map[string]float64{
		"heifer": {"tdn": 0.60, "cp": 0.12},
		"dry":    {"ndt": 0.55},
	}
	input.BatchProfiles = []string{"heifer", "dairy", "heifer"}

	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, "heifer", cfg.ProfileName)
	assert.Equal(t, schema.Requirements{
		{Nutrient: schema.CrudeProtein, MinimumFraction: 0.12},
		{Nutrient: schema.TDN, MinimumFraction: 0.60},
	}, cfg.Requirements)
	assert.Equal(t, []string{"dairy", "dry", "heifer"}, cfg.ProfileNames())
	assert.Equal(t, []string{"heifer", "dairy"}, cfg.BatchProfiles)
}

func TestParseRequirementOverrides(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected schema.Requirements
		wantErr  bool
	}{
		{name: "empty", input: "   ", expected: nil},
		{name: "single fraction", input: "tdn=0.7", expected: schema.Requirements{{Nutrient: schema.TDN, MinimumFraction: 0.7}}},
		{name: "percent and alias keep order", input: "ca=0.7%, pb=16%", expected: schema.Requirements{
			{Nutrient: schema.Calcium, MinimumFraction: 0.007},
			{Nutrient: schema.CrudeProtein, MinimumFraction: 0.16},
		}},
		{name: "trailing comma", input: "dry-matter=0.4,", expected: schema.Requirements{{Nutrient: schema.DryMatter, MinimumFraction: 0.4}}},
		{name: "missing value", input: "tdn", wantErr: true},
		{name: "not a number", input: "tdn=high", wantErr: true},
		{name: "unknown nutrient", input: "sodium=0.1", wantErr: true},
		{name: "duplicate via alias", input: "cp=0.1,crude_protein=0.2", wantErr: true},
		{name: "negative", input: "p=-0.1", wantErr: true},
		{name: "above 100 percent", input: "p=120%", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRequirementOverrides(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, len(tt.expected))
			for i := range tt.expected {
				assert.Equal(t, tt.expected[i].Nutrient, got[i].Nutrient)
				assert.InDelta(t, tt.expected[i].MinimumFraction, got[i].MinimumFraction, 1e-12)
			}
		})
	}
}

func TestParseRequirementMap(t *testing.T) {
	reqs, err := ParseRequirementMap(map[string]float64{"p": 0.004, "MS": 0.4})
	require.NoError(t, err)
	assert.Equal(t, schema.Requirements{
		{Nutrient: schema.DryMatter, MinimumFraction: 0.4},
		{Nutrient: schema.Phosphorus, MinimumFraction: 0.004},
	}, reqs)

	_, err = ParseRequirementMap(map[string]float64{"dm": 0.4, "dry_matter": 0.5})
	assert.Error(t, err)
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	clone := cfg.Clone()
	clone.Requirements[0].MinimumFraction = 0.99
	clone.Profiles["dairy"][0].MinimumFraction = 0.99
	clone.BatchProfiles[0] = "changed"

	assert.Equal(t, 0.40, cfg.Requirements[0].MinimumFraction)
	assert.Equal(t, 0.40, cfg.Profiles["dairy"][0].MinimumFraction)
	assert.Equal(t, "dairy", cfg.BatchProfiles[0])
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite ignores string", schema.SQLiteBackend, "", false},
		{"none ignores string", schema.NoneBackend, "anything", false},
		{"mysql valid", schema.MySQLBackend, "root:pw@tcp(localhost:3306)/ration", false},
		{"mysql missing tcp", schema.MySQLBackend, "root:pw@localhost/ration", true},
		{"mysql missing db", schema.MySQLBackend, "root:pw@tcp(localhost:3306)", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=ration", false},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=ration", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
