// Package parquet provides data structures and functions for exporting ration
// formulation data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
	"github.com/parquet-go/parquet-go"
)

// FormulationRun represents a single recorded formulation run.
// This struct maps to the ration_formulation_runs database table.
type FormulationRun struct {
	// RunID is the database identifier of the run
	RunID int64 `parquet:"run_id,snappy"`

	// RunUUID is the identifier shown to users and attached to blend results
	RunUUID string `parquet:"run_uuid,snappy"`

	ProfileName string `parquet:"profile_name,snappy"`

	// StartTime is when formulation began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TargetMass is the fixed ration mass in kg
	TargetMass float64 `parquet:"target_mass,snappy"`

	// Status is one of pending, succeeded or failed
	Status string `parquet:"status,snappy"`

	// TotalCost is the sum of rounded line costs (nullable, unset for failed runs)
	TotalCost *float64 `parquet:"total_cost,optional,snappy"`

	ObjectiveValue *float64 `parquet:"objective_value,optional,snappy"`

	IngredientCount int32 `parquet:"ingredient_count,snappy"`

	// ConfigParams contains the JSON-encoded requirements and options (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`

	ErrorMessage *string `parquet:"error_message,optional,snappy"`
}

// BlendLine represents one ingredient line of a recorded run.
// This struct maps to the ration_blend_lines database table.
type BlendLine struct {
	RunID          int64   `parquet:"run_id,snappy"`
	IngredientName string  `parquet:"ingredient_name,snappy"`
	Position       int32   `parquet:"position,snappy"`
	Quantity       float64 `parquet:"quantity,snappy"`
	Cost           float64 `parquet:"cost,snappy"`
}

// BlendRow is one line of a freshly formulated ration, written by --output parquet.
type BlendRow struct {
	RunUUID    string  `parquet:"run_uuid,snappy"`
	Profile    string  `parquet:"profile,snappy"`
	Position   int32   `parquet:"position,snappy"`
	Ingredient string  `parquet:"ingredient,snappy"`
	Quantity   float64 `parquet:"quantity,snappy"`
	Cost       float64 `parquet:"cost,snappy"`

	// Share is the fraction of the target mass taken by this line
	Share float64 `parquet:"share,snappy"`
}

// writeParquet creates outputPath and writes all rows with a schema inferred from T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFormulationRunsParquet writes a slice of FormulationRun structs to a Parquet file.
func WriteFormulationRunsParquet(data []FormulationRun, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteBlendLinesParquet writes a slice of BlendLine structs to a Parquet file.
func WriteBlendLinesParquet(data []BlendLine, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteBlendRowsParquet writes the lines of formulated rations to a Parquet file.
func WriteBlendRowsParquet(data []BlendRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertFormulationRunRecords converts schema.FormulationRunRecord to FormulationRun for Parquet export.
func ConvertFormulationRunRecords(records []schema.FormulationRunRecord) []FormulationRun {
	result := make([]FormulationRun, len(records))
	for i, record := range records {
		result[i] = FormulationRun{
			RunID:           record.RunID,
			RunUUID:         record.RunUUID,
			ProfileName:     record.ProfileName,
			StartTime:       record.StartTime,
			EndTime:         record.EndTime,
			RunDurationMs:   record.RunDurationMs,
			TargetMass:      record.TargetMass,
			Status:          record.Status,
			TotalCost:       record.TotalCost,
			ObjectiveValue:  record.ObjectiveValue,
			IngredientCount: record.IngredientCount,
			ConfigParams:    record.ConfigParams,
			ErrorMessage:    record.ErrorMessage,
		}
	}
	return result
}

// ConvertBlendLineRecords converts schema.BlendLineRecord to BlendLine for Parquet export.
func ConvertBlendLineRecords(records []schema.BlendLineRecord) []BlendLine {
	result := make([]BlendLine, len(records))
	for i, record := range records {
		result[i] = BlendLine(record)
	}
	return result
}

// ConvertBlendResults flattens formulated rations into one row per blend line.
func ConvertBlendResults(results []schema.BlendResult) []BlendRow {
	var rows []BlendRow
	for _, result := range results {
		for i, line := range result.Lines {
			var share float64
			if result.TargetMass > 0 {
				share = line.Quantity / result.TargetMass
			}
			rows = append(rows, BlendRow{
				RunUUID:    result.RunID,
				Profile:    result.Profile,
				Position:   int32(i + 1),
				Ingredient: line.Ingredient,
				Quantity:   line.Quantity,
				Cost:       line.Cost,
				Share:      share,
			})
		}
	}
	return rows
}
