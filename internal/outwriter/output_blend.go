package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/contract"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/parquet"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteBlendResult outputs a formulated ration, dispatching based on the output format configured.
func WriteBlendResult(result schema.BlendResult, cfg *contract.Config, duration time.Duration) error {
	fmtQty, fmtPct := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBlendJSON(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBlendCSV(w, result, fmtQty)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeBlendParquet([]schema.BlendResult{result}, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBlendTable(w, result, cfg, fmtQty, fmtPct, duration)
		}, "Wrote table")
	}
	return nil
}

// jsonBlendResult is the JSON shape of a formulated ration.
type jsonBlendResult struct {
	RunID           string                         `json:"run_id,omitempty"`
	Profile         string                         `json:"profile,omitempty"`
	TargetMass      float64                        `json:"target_mass"`
	Lines           []schema.EnrichedBlendLine     `json:"lines"`
	TotalCost       float64                        `json:"total_cost"`
	ObjectiveValue  float64                        `json:"objective_value"`
	Nutrients       []schema.EnrichedNutrientLevel `json:"nutrients"`
	SolveDurationMs float64                        `json:"solve_duration_ms"`
}

func toJSONBlendResult(result schema.BlendResult) jsonBlendResult {
	return jsonBlendResult{
		RunID:           result.RunID,
		Profile:         result.Profile,
		TargetMass:      result.TargetMass,
		Lines:           schema.EnrichLines(result),
		TotalCost:       result.TotalCost,
		ObjectiveValue:  result.ObjectiveValue,
		Nutrients:       schema.EnrichNutrients(result.Nutrients),
		SolveDurationMs: float64(result.SolveDuration.Microseconds()) / 1000,
	}
}

// writeBlendJSON writes the ration with line positions, shares and nutrient labels.
func writeBlendJSON(w io.Writer, result schema.BlendResult) error {
	return writeJSON(w, toJSONBlendResult(result))
}

// writeBlendCSV writes one row per blend line followed by a total row.
func writeBlendCSV(w io.Writer, result schema.BlendResult, fmtQty func(float64) string) error {
	header := []string{"position", "ingredient", "quantity", "share_pct", "cost"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, l := range schema.EnrichLines(result) {
			row := []string{
				strconv.Itoa(l.Position),
				l.Ingredient,
				fmtQty(l.Quantity),
				fmtQty(l.Share),
				fmtQty(l.Cost),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		total := []string{"", "total", fmtQty(result.TotalQuantity()), "", fmtQty(result.TotalCost)}
		if err := cw.Write(total); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
		return nil
	})
}

// writeBlendParquet writes the lines of one or more rations to a Parquet file.
func writeBlendParquet(results []schema.BlendResult, outputFile string) error {
	if outputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}
	rows := parquet.ConvertBlendResults(results)
	if err := parquet.WriteBlendRowsParquet(rows, outputFile); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote %d blend lines to %s\n", len(rows), outputFile)
	return nil
}

// writeBlendTable generates and writes the human-readable ration and nutrient tables.
func writeBlendTable(w io.Writer, result schema.BlendResult, cfg *contract.Config, fmtQty, fmtPct func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Ingredient", "Quantity (kg)", "Share", "Cost"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg)
	var data [][]string
	for _, l := range schema.EnrichLines(result) {
		data = append(data, []string{
			strconv.Itoa(l.Position),
			contract.TruncateName(l.Ingredient, nameWidth),
			fmtQty(l.Quantity),
			fmtPct(l.Share / 100),
			formatMoney(cfg.Currency, l.Cost),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "Total: %s kg for %s (solver optimum %.4f)\n",
		fmtQty(result.TotalQuantity()), formatMoney(cfg.Currency, result.TotalCost), result.ObjectiveValue); err != nil {
		return err
	}

	if len(result.Nutrients) > 0 {
		if err := writeNutrientTable(w, result.Nutrients, cfg, fmtQty, fmtPct); err != nil {
			return err
		}
	}

	profile := result.Profile
	if profile == "" {
		profile = "custom"
	}
	if _, err := fmt.Fprintf(w, "Formulated profile %s in %v. History backend: %s\n", profile, duration, cfg.HistoryBackend); err != nil {
		return err
	}
	return nil
}

// writeNutrientTable writes the achieved level of every required nutrient.
func writeNutrientTable(w io.Writer, levels []schema.NutrientLevel, cfg *contract.Config, fmtQty, fmtPct func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Nutrient", "Required", "Achieved", "Amount (kg)", "Status"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, l := range levels {
		data = append(data, []string{
			l.Nutrient.Label(),
			fmtPct(l.Required),
			fmtPct(l.Achieved),
			fmtQty(l.Amount),
			nutrientLabel(l, cfg.UseColors),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
