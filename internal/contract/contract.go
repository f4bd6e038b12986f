// Package contract provides interfaces and shared utilities for the ration CLI's internal architecture.
package contract

import (
	"time"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
)

// HistoryManager defines the interface for managing the formulation history store.
// This allows the history layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for tracking formulation runs and their blends.
type HistoryStore interface {
	// BeginRun creates a new formulation run and returns its unique ID
	BeginRun(runUUID string, profile string, targetMass float64, startTime time.Time, configParams map[string]any) (int64, error)

	// RecordBlendLine stores one ingredient line of the run's blend
	RecordBlendLine(runID int64, position int, line schema.BlendLine) error

	// EndRun updates the run with completion data
	EndRun(runID int64, outcome schema.RunOutcome) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run ordered by ID
	GetAllRuns() ([]schema.FormulationRunRecord, error)

	// GetAllBlendLines returns every recorded blend line ordered by run and position
	GetAllBlendLines() ([]schema.BlendLineRecord, error)

	// Close closes the underlying connection
	Close() error
}
