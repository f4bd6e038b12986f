package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/contract"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters creates the formatter closures shared by all output types.
// Quantities and money always use two decimals; nutrient percentages use precision.
func createFormatters(precision int) (fmtQty func(float64) string, fmtPct func(float64) string) {
	fmtQty = func(v float64) string {
		return fmt.Sprintf("%.*f", schema.DisplayPrecision, v)
	}
	fmtPct = func(fraction float64) string {
		return fmt.Sprintf("%.*f%%", precision, fraction*100)
	}
	return fmtQty, fmtPct
}

// formatMoney prefixes an amount with the currency symbol.
func formatMoney(currency string, v float64) string {
	currency = strings.TrimSpace(currency)
	if currency == "" {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%s %.2f", currency, v)
}

// nutrientLabel returns the status label of a nutrient level, colored when enabled.
func nutrientLabel(level schema.NutrientLevel, useColors bool) string {
	if useColors {
		return contract.GetColorLabel(level)
	}
	return schema.GetNutrientLabel(level)
}
