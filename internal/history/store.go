package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/contract"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
	_ "modernc.org/sqlite" // SQLite driver
)

// Table names for formulation history.
const (
	runsTable       = "ration_formulation_runs"
	blendLinesTable = "ration_blend_lines"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// driverFor returns the database/sql driver name registered for a backend.
func driverFor(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// openDB opens and pings a database for the backend. An empty SQLite connection
// string resolves to the default history file in the home directory.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, string, error) {
	driverName, err := driverFor(backend)
	if err != nil {
		return nil, "", err
	}

	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = GetHistoryDBFilePath()
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		switch backend {
		case schema.SQLiteBackend:
			return nil, "", fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", connStr, err)
		case schema.MySQLBackend:
			return nil, "", fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		default:
			return nil, "", fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=... user=... password=...", err)
		}
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is accessible."
		}
		return nil, "", fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}
	return db, driverName, nil
}

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, driverName, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// createHistoryTables applies the table-creating migrations of the backend.
// They use IF NOT EXISTS, so a database managed by MigrateHistory is left untouched.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	files := []struct {
		table string
		path  string
	}{
		{runsTable, "000001_create_formulation_runs.up.sql"},
		{blendLinesTable, "000002_create_blend_lines.up.sql"},
	}

	for _, f := range files {
		query, err := fs.ReadFile(migrationsFS, fmt.Sprintf("migrations/%s/%s", backend, f.path))
		if err != nil {
			return fmt.Errorf("failed to read schema for table %s: %w", f.table, err)
		}
		if _, err := db.Exec(string(query)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", f.table, err)
		}
	}
	return nil
}

func (hs *HistoryStoreImpl) disabled() bool {
	return hs.backend == schema.NoneBackend || hs.db == nil
}

// BeginRun creates a new formulation run in the pending state and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(runUUID string, profile string, targetMass float64, startTime time.Time, configParams map[string]any) (int64, error) {
	if hs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)
	args := []any{runUUID, profile, formatTime(startTime, hs.backend), targetMass, string(schema.RunPending), string(configJSON)}

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, profile_name, start_time, target_mass, status, config_params)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, args...).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (run_uuid, profile_name, start_time, target_mass, status, config_params)
			VALUES (?, ?, ?, ?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query, args...)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert formulation run: %w", err)
	}
	return runID, nil
}

// RecordBlendLine stores one ingredient line of a run's blend.
func (hs *HistoryStoreImpl) RecordBlendLine(runID int64, position int, line schema.BlendLine) error {
	if hs.disabled() {
		return nil
	}

	b := hs.backend
	query := fmt.Sprintf(`INSERT INTO %s (run_id, ingredient_name, position, quantity, cost) VALUES (%s, %s, %s, %s, %s)`,
		quoteTableName(blendLinesTable, b),
		placeholder(b, 1), placeholder(b, 2), placeholder(b, 3), placeholder(b, 4), placeholder(b, 5))

	if _, err := hs.db.Exec(query, runID, line.Ingredient, position, line.Quantity, line.Cost); err != nil {
		return fmt.Errorf("failed to insert blend line %q for run %d: %w", line.Ingredient, runID, err)
	}
	return nil
}

// EndRun updates the run with completion data. Failed runs keep a NULL cost.
func (hs *HistoryStoreImpl) EndRun(runID int64, outcome schema.RunOutcome) error {
	if hs.disabled() {
		return nil
	}

	b := hs.backend
	quotedTableName := quoteTableName(runsTable, b)

	// First, get the start_time to calculate duration
	row := hs.db.QueryRow(fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholder(b, 1)), runID)

	var startTime time.Time
	switch b {
	case schema.SQLiteBackend:
		var startTimeStr string
		if err := row.Scan(&startTimeStr); err != nil {
			return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
		}
		var err error
		startTime, err = parseSQLiteTime(startTimeStr)
		if err != nil {
			return fmt.Errorf("failed to parse start_time: %w", err)
		}
	default: // MySQL and PostgreSQL store as native datetime
		if err := row.Scan(&startTime); err != nil {
			return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
		}
	}

	durationMs := outcome.EndTime.Sub(startTime).Milliseconds()

	var totalCost, objective any
	if outcome.Status == schema.RunSucceeded {
		totalCost = outcome.TotalCost
		objective = outcome.ObjectiveValue
	}

	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, status = %s, total_cost = %s,
		objective_value = %s, ingredient_count = %s, error_message = %s WHERE run_id = %s`,
		quotedTableName,
		placeholder(b, 1), placeholder(b, 2), placeholder(b, 3), placeholder(b, 4),
		placeholder(b, 5), placeholder(b, 6), placeholder(b, 7), placeholder(b, 8))

	_, err := hs.db.Exec(updateQuery,
		formatTime(outcome.EndTime, b), durationMs, string(outcome.Status), totalCost,
		objective, outcome.IngredientCount, nullString(outcome.ErrorMessage), runID)
	if err != nil {
		return fmt.Errorf("failed to update formulation run: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.disabled() {
		return status, nil
	}

	b := hs.backend
	quotedRuns := quoteTableName(runsTable, b)

	countQuery := fmt.Sprintf(`SELECT COUNT(*),
		COALESCE(SUM(CASE WHEN status = %s THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status = %s THEN 1 ELSE 0 END), 0),
		COALESCE(AVG(total_cost), 0)
		FROM %s`, placeholder(b, 1), placeholder(b, 2), quotedRuns)
	row := hs.db.QueryRow(countQuery, string(schema.RunSucceeded), string(schema.RunFailed))
	if err := row.Scan(&status.TotalRuns, &status.SucceededRuns, &status.FailedRuns, &status.AverageCost); err != nil {
		return status, fmt.Errorf("failed to get run counts: %w", err)
	}

	if status.TotalRuns > 0 {
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedRuns)
		oldestRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedRuns)

		var err error
		status.LastRunID, status.LastRunTime, err = hs.scanRunTime(lastRunQuery)
		if err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		_, status.OldestRunTime, err = hs.scanRunTime(oldestRunQuery)
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
	}

	for _, table := range []string{runsTable, blendLinesTable} {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, b))
		var count int64
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// scanRunTime runs a single-row query returning run_id and start_time.
func (hs *HistoryStoreImpl) scanRunTime(query string) (int64, time.Time, error) {
	row := hs.db.QueryRow(query)

	var runID int64
	switch hs.backend {
	case schema.SQLiteBackend:
		var timeStr string
		if err := row.Scan(&runID, &timeStr); err != nil {
			return 0, time.Time{}, err
		}
		t, err := parseSQLiteTime(timeStr)
		return runID, t, err
	default: // MySQL and PostgreSQL store as native datetime
		var t time.Time
		err := row.Scan(&runID, &t)
		return runID, t, err
	}
}

// GetAllRuns retrieves all formulation runs ordered by ID.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.FormulationRunRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, run_uuid, profile_name, start_time, end_time, run_duration_ms, target_mass,
		status, total_cost, objective_value, ingredient_count, config_params, error_message
		FROM %s ORDER BY run_id`, quoteTableName(runsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query formulation runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.FormulationRunRecord
	for rows.Next() {
		var record schema.FormulationRunRecord

		switch hs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &record.RunUUID, &record.ProfileName, &startTimeStr, &endTimeStr,
				&record.RunDurationMs, &record.TargetMass, &record.Status, &record.TotalCost, &record.ObjectiveValue,
				&record.IngredientCount, &record.ConfigParams, &record.ErrorMessage); err != nil {
				return nil, fmt.Errorf("failed to scan formulation run: %w", err)
			}
			startTime, err := parseSQLiteTime(startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			if endTimeStr != nil {
				endTime, err := parseSQLiteTime(*endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.RunUUID, &record.ProfileName, &record.StartTime, &record.EndTime,
				&record.RunDurationMs, &record.TargetMass, &record.Status, &record.TotalCost, &record.ObjectiveValue,
				&record.IngredientCount, &record.ConfigParams, &record.ErrorMessage); err != nil {
				return nil, fmt.Errorf("failed to scan formulation run: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating formulation runs: %w", err)
	}
	return results, nil
}

// GetAllBlendLines retrieves all blend lines ordered by run and position.
func (hs *HistoryStoreImpl) GetAllBlendLines() ([]schema.BlendLineRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, ingredient_name, position, quantity, cost FROM %s ORDER BY run_id, position`,
		quoteTableName(blendLinesTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query blend lines: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.BlendLineRecord
	for rows.Next() {
		var record schema.BlendLineRecord
		if err := rows.Scan(&record.RunID, &record.IngredientName, &record.Position, &record.Quantity, &record.Cost); err != nil {
			return nil, fmt.Errorf("failed to scan blend line: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blend lines: %w", err)
	}
	return results, nil
}
