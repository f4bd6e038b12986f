package history

import (
	"errors"
	"fmt"
	"io"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/contract"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/parquet"
)

// ExecuteHistoryExport exports the recorded runs and blend lines of the global store to Parquet files.
func ExecuteHistoryExport(w io.Writer, outputFile string) error {
	store := Manager.GetHistoryStore()
	if store == nil {
		return errors.New("history store is not initialized")
	}
	return exportHistory(w, store, outputFile)
}

func exportHistory(w io.Writer, store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no formulation history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total formulation runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total blend lines: %d\n", status.TableSizes[blendLinesTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve formulation runs: %w", err)
	}
	lines, err := store.GetAllBlendLines()
	if err != nil {
		return fmt.Errorf("failed to retrieve blend lines: %w", err)
	}

	parquetRuns := parquet.ConvertFormulationRunRecords(runs)
	parquetLines := parquet.ConvertBlendLineRecords(lines)

	runsFile := outputFile + ".formulation_runs.parquet"
	if err := parquet.WriteFormulationRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write formulation runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d formulation runs to: %s\n", len(parquetRuns), runsFile)

	linesFile := outputFile + ".blend_lines.parquet"
	if err := parquet.WriteBlendLinesParquet(parquetLines, linesFile); err != nil {
		return fmt.Errorf("failed to write blend lines: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d blend lines to: %s\n", len(parquetLines), linesFile)

	return nil
}
