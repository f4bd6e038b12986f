package history

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportHistory_SQLite(t *testing.T) {
	store := newSQLiteStore(t)
	recordSucceeded(t, store, time.Now())

	base := filepath.Join(t.TempDir(), "ration")
	var out bytes.Buffer
	require.NoError(t, exportHistory(&out, store, base))

	for _, suffix := range []string{".formulation_runs.parquet", ".blend_lines.parquet"} {
		info, err := os.Stat(base + suffix)
		require.NoError(t, err, "%s should exist", suffix)
		assert.Positive(t, info.Size())
	}
	assert.Contains(t, out.String(), "Exported 1 formulation runs")
	assert.Contains(t, out.String(), "Exported 4 blend lines")
	assert.Contains(t, out.String(), "Total blend lines: 4")
}

func TestExportHistory_Errors(t *testing.T) {
	t.Run("missing output file", func(t *testing.T) {
		err := exportHistory(&bytes.Buffer{}, &MockHistoryStore{}, "")
		assert.ErrorContains(t, err, "--output-file is required")
	})

	t.Run("status failure", func(t *testing.T) {
		store := &MockHistoryStore{}
		store.On("GetStatus").Return(schema.HistoryStatus{}, errors.New("connection refused"))

		err := exportHistory(&bytes.Buffer{}, store, "out")
		assert.ErrorContains(t, err, "connection refused")
		store.AssertExpectations(t)
	})

	t.Run("empty history", func(t *testing.T) {
		store := &MockHistoryStore{}
		store.On("GetStatus").Return(schema.HistoryStatus{Backend: "sqlite", Connected: true}, nil)

		err := exportHistory(&bytes.Buffer{}, store, "out")
		assert.ErrorContains(t, err, "no formulation history found")
		store.AssertNotCalled(t, "GetAllRuns")
	})

	t.Run("blend line query failure", func(t *testing.T) {
		store := &MockHistoryStore{}
		store.On("GetStatus").Return(schema.HistoryStatus{Backend: "mysql", Connected: true, TotalRuns: 1}, nil)
		store.On("GetAllRuns").Return([]schema.FormulationRunRecord{{RunID: 1}}, nil)
		store.On("GetAllBlendLines").Return(nil, errors.New("table missing"))

		err := exportHistory(&bytes.Buffer{}, store, filepath.Join(t.TempDir(), "out"))
		assert.ErrorContains(t, err, "failed to retrieve blend lines")
	})
}

func TestPrintHistoryStatus(t *testing.T) {
	t.Run("disconnected", func(t *testing.T) {
		var out bytes.Buffer
		PrintHistoryStatus(&out, schema.HistoryStatus{Backend: "none"}, "R$")
		assert.Equal(t, "History Backend: none\nConnected: false\n", out.String())
	})

	t.Run("connected", func(t *testing.T) {
		last := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
		var out bytes.Buffer
		PrintHistoryStatus(&out, schema.HistoryStatus{
			Backend:       "sqlite",
			Connected:     true,
			TotalRuns:     3,
			SucceededRuns: 2,
			FailedRuns:    1,
			LastRunID:     3,
			LastRunTime:   last,
			OldestRunTime: last.Add(-time.Hour),
			AverageCost:   30.654,
			TableSizes:    map[string]int64{runsTable: 3, blendLinesTable: 8},
		}, "R$")

		text := out.String()
		assert.Contains(t, text, "Total Runs: 3 (2 succeeded, 1 failed)")
		assert.Contains(t, text, "Last Run: 2026-05-04T12:00:00Z")
		assert.Contains(t, text, "Average Cost: R$ 30.65")
		assert.Less(t, bytes.Index(out.Bytes(), []byte(blendLinesTable)), bytes.Index(out.Bytes(), []byte(runsTable)),
			"tables are listed in name order")
	})
}

func TestClearHistory(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "history.db")
		store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath, ""))
		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))

		// Clearing again is not an error.
		assert.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath, ""))
	})

	t.Run("sqlite requires path", func(t *testing.T) {
		assert.Error(t, ClearHistory(schema.SQLiteBackend, "", ""))
	})

	t.Run("none backend", func(t *testing.T) {
		assert.NoError(t, ClearHistory(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported backend", func(t *testing.T) {
		err := ClearHistory(schema.DatabaseBackend("oracle"), "", "")
		assert.ErrorContains(t, err, "unsupported history backend")
	})
}
