// Package dataload reads ingredient tables from YAML, JSON and CSV files.
package dataload

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/core/catalog"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of an ingredient table file.
type Format string

// Supported table formats.
const (
	YAMLFormat Format = "yaml"
	JSONFormat Format = "json"
	CSVFormat  Format = "csv"
)

// ingredientRecord is one ingredient as written in a YAML or JSON table.
// Content keys accept nutrient identifiers and short codes.
type ingredientRecord struct {
	Name    string             `yaml:"name" json:"name"`
	Price   float64            `yaml:"price" json:"price"`
	Content map[string]float64 `yaml:"content" json:"content"`
}

type tableFile struct {
	Ingredients []ingredientRecord `yaml:"ingredients" json:"ingredients"`
}

// Column names accepted for the name and price of a CSV table.
var (
	nameColumns  = map[string]struct{}{"name": {}, "nome": {}, "ingredient": {}}
	priceColumns = map[string]struct{}{"price": {}, "preco": {}, "preço": {}, "unit_price": {}}
)

// FormatFromPath infers the table format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAMLFormat, nil
	case ".json":
		return JSONFormat, nil
	case ".csv":
		return CSVFormat, nil
	default:
		return "", fmt.Errorf("unsupported catalog file extension %q (expected .yaml, .yml, .json or .csv)", filepath.Ext(path))
	}
}

// LoadCatalog reads an ingredient table file and builds a catalog from it.
// An empty path returns the built-in dairy catalog. With percent set, nutrient
// values are read as percentages of ingredient mass.
func LoadCatalog(path string, percent bool) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	ingredients, err := Parse(data, format, percent)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	return catalog.New(ingredients)
}

// Parse decodes an ingredient table in the given format.
func Parse(data []byte, format Format, percent bool) ([]schema.Ingredient, error) {
	var records []ingredientRecord
	var err error
	switch format {
	case YAMLFormat:
		records, err = decodeYAML(data)
	case JSONFormat:
		records, err = decodeJSON(data)
	case CSVFormat:
		records, err = decodeCSV(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
	if err != nil {
		return nil, err
	}

	scale := 1.0
	if percent {
		scale = 100
	}
	ingredients := make([]schema.Ingredient, 0, len(records))
	for i, rec := range records {
		ing, err := rec.toIngredient(scale)
		if err != nil {
			return nil, fmt.Errorf("ingredient %d (%q): %w", i+1, rec.Name, err)
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, nil
}

func (r ingredientRecord) toIngredient(scale float64) (schema.Ingredient, error) {
	content := make(map[schema.Nutrient]float64, len(r.Content))
	for key, value := range r.Content {
		n, ok := schema.ParseNutrient(key)
		if !ok {
			return schema.Ingredient{}, fmt.Errorf("unknown nutrient %q", key)
		}
		if _, dup := content[n]; dup {
			return schema.Ingredient{}, fmt.Errorf("nutrient %s is given more than once", n)
		}
		content[n] = value / scale
	}
	return schema.Ingredient{
		Name:      strings.TrimSpace(r.Name),
		UnitPrice: r.Price,
		Content:   content,
	}, nil
}

// decodeYAML accepts either an "ingredients:" document or a bare list.
func decodeYAML(data []byte) ([]ingredientRecord, error) {
	var doc tableFile
	if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Ingredients) > 0 {
		return doc.Ingredients, nil
	}
	var list []ingredientRecord
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("invalid YAML ingredient table: %w", err)
	}
	return list, nil
}

// decodeJSON accepts either an {"ingredients": [...]} object or a bare array.
func decodeJSON(data []byte) ([]ingredientRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []ingredientRecord
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("invalid JSON ingredient table: %w", err)
		}
		return list, nil
	}
	var doc tableFile
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON ingredient table: %w", err)
	}
	return doc.Ingredients, nil
}

// decodeCSV reads a table with a header row naming the name, price and nutrient columns.
func decodeCSV(r io.Reader) ([]ingredientRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("CSV ingredient table is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header: %w", err)
	}

	nameCol, priceCol := -1, -1
	nutrientCols := make(map[int]string)
	for i, col := range header {
		key := strings.ToLower(strings.TrimSpace(col))
		switch {
		case isColumn(nameColumns, key):
			nameCol = i
		case isColumn(priceColumns, key):
			priceCol = i
		default:
			if _, ok := schema.ParseNutrient(key); !ok {
				return nil, fmt.Errorf("unknown CSV column %q", col)
			}
			nutrientCols[i] = key
		}
	}
	if nameCol < 0 || priceCol < 0 {
		return nil, fmt.Errorf("CSV header must contain name and price columns")
	}

	var records []ingredientRecord
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid CSV row: %w", err)
		}
		line, _ := reader.FieldPos(0)

		price, err := parseNumber(row[priceCol])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid price %q: %w", line, row[priceCol], err)
		}
		rec := ingredientRecord{Name: row[nameCol], Price: price, Content: make(map[string]float64, len(nutrientCols))}
		for i, key := range nutrientCols {
			if strings.TrimSpace(row[i]) == "" {
				continue
			}
			v, err := parseNumber(row[i])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid %s value %q: %w", line, key, row[i], err)
			}
			rec.Content[key] = v
		}
		records = append(records, rec)
	}
	return records, nil
}

func isColumn(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}

// parseNumber accepts a decimal comma as written in Brazilian feed tables.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	return strconv.ParseFloat(s, 64)
}
