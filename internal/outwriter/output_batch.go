package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/contract"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Batch entry status labels.
const (
	batchOK     = "ok"
	batchFailed = "failed"
)

// WriteBatchResult outputs the rations of a batch run, dispatching based on the output format configured.
func WriteBatchResult(batch schema.BatchResult, cfg *contract.Config) error {
	fmtQty, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBatchJSON(w, batch)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBatchCSV(w, batch, fmtQty)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		var results []schema.BlendResult
		for _, e := range batch.Entries {
			if e.Result != nil {
				results = append(results, *e.Result)
			}
		}
		if err := writeBlendParquet(results, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBatchTable(w, batch, cfg, fmtQty)
		}, "Wrote table")
	}
	return nil
}

// jsonBatchEntry is the JSON shape of one batch entry.
type jsonBatchEntry struct {
	Profile string           `json:"profile"`
	Status  string           `json:"status"`
	Result  *jsonBlendResult `json:"result,omitempty"`
	Error   string           `json:"error,omitempty"`
	Kind    schema.ErrorKind `json:"error_kind,omitempty"`
}

// writeBatchJSON writes every batch entry in profile order.
func writeBatchJSON(w io.Writer, batch schema.BatchResult) error {
	output := make([]jsonBatchEntry, len(batch.Entries))
	for i, e := range batch.Entries {
		output[i] = jsonBatchEntry{
			Profile: e.Profile,
			Status:  batchStatus(e),
			Error:   e.Error,
			Kind:    e.Kind,
		}
		if e.Result != nil {
			r := toJSONBlendResult(*e.Result)
			output[i].Result = &r
		}
	}
	return writeJSON(w, output)
}

// writeBatchCSV writes one summary row per profile.
func writeBatchCSV(w io.Writer, batch schema.BatchResult, fmtQty func(float64) string) error {
	header := []string{"profile", "status", "ingredients", "total_cost", "objective_value", "error_kind", "error"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, e := range batch.Entries {
			row := []string{e.Profile, batchStatus(e), "", "", "", string(e.Kind), e.Error}
			if e.Result != nil {
				row[2] = strconv.Itoa(len(e.Result.Lines))
				row[3] = fmtQty(e.Result.TotalCost)
				row[4] = strconv.FormatFloat(e.Result.ObjectiveValue, 'f', -1, 64)
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

// writeBatchTable writes a summary table of all profiles in the batch.
func writeBatchTable(w io.Writer, batch schema.BatchResult, cfg *contract.Config, fmtQty func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Profile", "Status", "Total Cost", "Blend"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	nameWidth := getMaxTableNameWidth(cfg)
	failed := 0
	var data [][]string
	for _, e := range batch.Entries {
		status := batchStatus(e)
		if e.Result == nil {
			failed++
			if cfg.UseColors {
				status = contract.ErrorColor.Sprint(status)
			}
			data = append(data, []string{e.Profile, status, "-", contract.TruncateName(e.Error, nameWidth)})
			continue
		}
		parts := make([]string, len(e.Result.Lines))
		for i, l := range e.Result.Lines {
			parts[i] = fmt.Sprintf("%s %s", l.Ingredient, fmtQty(l.Quantity))
		}
		data = append(data, []string{
			e.Profile,
			status,
			formatMoney(cfg.Currency, e.Result.TotalCost),
			strings.Join(parts, ", "),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Formulated %d profiles (%d failed) in %v with %d workers\n",
		len(batch.Entries), failed, batch.Duration, cfg.Workers); err != nil {
		return err
	}
	return nil
}

func batchStatus(e schema.BatchEntry) string {
	if e.Result == nil {
		return batchFailed
	}
	return batchOK
}
