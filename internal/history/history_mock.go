package history

import (
	"time"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/contract"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
	"github.com/stretchr/testify/mock"
)

// MockHistoryManager is a mock implementation of HistoryManager for testing.
type MockHistoryManager struct {
	mock.Mock
}

var _ contract.HistoryManager = &MockHistoryManager{} // Compile-time check

// GetHistoryStore implements the HistoryManager interface.
func (m *MockHistoryManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginRun implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRun(runUUID string, profile string, targetMass float64, startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(runUUID, profile, targetMass, startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordBlendLine implements the HistoryStore interface.
func (m *MockHistoryStore) RecordBlendLine(runID int64, position int, line schema.BlendLine) error {
	args := m.Called(runID, position, line)
	return args.Error(0)
}

// EndRun implements the HistoryStore interface.
func (m *MockHistoryStore) EndRun(runID int64, outcome schema.RunOutcome) error {
	args := m.Called(runID, outcome)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.FormulationRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.FormulationRunRecord)
	return runs, args.Error(1)
}

// GetAllBlendLines implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllBlendLines() ([]schema.BlendLineRecord, error) {
	args := m.Called()
	lines, _ := args.Get(0).([]schema.BlendLineRecord)
	return lines, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
