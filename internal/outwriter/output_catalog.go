package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/contract"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteCatalogListing outputs the ingredients of a catalog with prices and nutrient content.
func WriteCatalogListing(ingredients []schema.Ingredient, cfg *contract.Config) error {
	_, fmtPct := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, ingredients)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCatalogCSV(w, ingredients)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for catalog listings")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCatalogTable(w, ingredients, cfg, fmtPct)
		}, "Wrote table")
	}
}

// writeCatalogCSV writes fractions unformatted so the file can be loaded back with --catalog.
func writeCatalogCSV(w io.Writer, ingredients []schema.Ingredient) error {
	header := []string{"name", "price"}
	for _, n := range schema.AllNutrients {
		header = append(header, string(n))
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, ing := range ingredients {
			row := []string{ing.Name, strconv.FormatFloat(ing.UnitPrice, 'f', -1, 64)}
			for _, n := range schema.AllNutrients {
				row = append(row, strconv.FormatFloat(ing.Fraction(n), 'f', -1, 64))
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
		return nil
	})
}

func writeCatalogTable(w io.Writer, ingredients []schema.Ingredient, cfg *contract.Config, fmtPct func(float64) string) error {
	table := tablewriter.NewWriter(w)
	headers := []string{"Ingredient", "Price/kg"}
	for _, n := range schema.AllNutrients {
		headers = append(headers, n.Label())
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth(cfg)
	var data [][]string
	for _, ing := range ingredients {
		row := []string{contract.TruncateName(ing.Name, nameWidth), formatMoney(cfg.Currency, ing.UnitPrice)}
		for _, n := range schema.AllNutrients {
			row = append(row, fmtPct(ing.Fraction(n)))
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	source := cfg.CatalogPath
	if source == "" {
		source = "built-in dairy table"
	}
	_, err := fmt.Fprintf(w, "%d ingredients from %s\n", len(ingredients), source)
	return err
}

// WriteProfileListing outputs the requirement profiles and their nutrient minimums.
func WriteProfileListing(profiles []schema.Profile, cfg *contract.Config) error {
	_, fmtPct := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, profiles)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"profile", "nutrient", "minimum_fraction"}, func(cw *csv.Writer) error {
				for _, p := range profiles {
					for _, r := range p.Requirements {
						row := []string{p.Name, string(r.Nutrient), strconv.FormatFloat(r.MinimumFraction, 'f', -1, 64)}
						if err := cw.Write(row); err != nil {
							return fmt.Errorf("failed to write CSV record: %w", err)
						}
					}
				}
				return nil
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for profile listings")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeProfileTable(w, profiles, fmtPct)
		}, "Wrote table")
	}
}

func writeProfileTable(w io.Writer, profiles []schema.Profile, fmtPct func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Profile", "Nutrient", "Minimum"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	var data [][]string
	for _, p := range profiles {
		if len(p.Requirements) == 0 {
			data = append(data, []string{p.Name, "-", "-"})
			continue
		}
		for _, r := range p.Requirements {
			data = append(data, []string{p.Name, r.Nutrient.Label(), fmtPct(r.MinimumFraction)})
		}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
