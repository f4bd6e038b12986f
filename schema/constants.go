package schema

import "strings"

// Custom string types for type safety.
type (
	// Nutrient identifies a tracked nutrient of an ingredient or ration.
	Nutrient string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for formulation history.
	DatabaseBackend string

	// RunStatus represents the outcome of a recorded formulation run.
	RunStatus string
)

// All tracked nutrients.
const (
	DryMatter    Nutrient = "dry_matter"
	CrudeProtein Nutrient = "crude_protein"
	TDN          Nutrient = "tdn" // total digestible nutrients
	Calcium      Nutrient = "calcium"
	Phosphorus   Nutrient = "phosphorus"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All run statuses recorded in history.
const (
	RunPending   RunStatus = "pending"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// AllNutrients lists the tracked nutrients in canonical order.
var AllNutrients = []Nutrient{DryMatter, CrudeProtein, TDN, Calcium, Phosphorus}

// ValidNutrients lists all valid nutrient identifiers.
var ValidNutrients = map[Nutrient]struct{}{
	DryMatter:    {},
	CrudeProtein: {},
	TDN:          {},
	Calcium:      {},
	Phosphorus:   {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// nutrientAliases maps the short feed-table codes onto nutrients.
var nutrientAliases = map[string]Nutrient{
	"ms":  DryMatter,
	"dm":  DryMatter,
	"pb":  CrudeProtein,
	"cp":  CrudeProtein,
	"ndt": TDN,
	"ca":  Calcium,
	"p":   Phosphorus,
}

// nutrientLabels holds display names for table output.
var nutrientLabels = map[Nutrient]string{
	DryMatter:    "Dry Matter",
	CrudeProtein: "Crude Protein",
	TDN:          "TDN",
	Calcium:      "Calcium",
	Phosphorus:   "Phosphorus",
}

// ParseNutrient resolves a nutrient from its identifier or short code (case-insensitive).
func ParseNutrient(s string) (Nutrient, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, "-", "_")
	if _, ok := ValidNutrients[Nutrient(key)]; ok {
		return Nutrient(key), true
	}
	n, ok := nutrientAliases[key]
	return n, ok
}

// Label returns the display name of the nutrient.
func (n Nutrient) Label() string {
	if label, ok := nutrientLabels[n]; ok {
		return label
	}
	return string(n)
}
