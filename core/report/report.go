// Package report turns raw solver quantities into the rounded ingredient/cost breakdown.
package report

import (
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/core/catalog"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
	"github.com/shopspring/decimal"
)

// BuildReport filters quantities at or below schema.DefaultEpsilon, prices the remaining
// ingredients and rounds quantity and cost to schema.DisplayPrecision places.
// Lines follow catalog order. TotalCost is the exact sum of the rounded line costs.
func BuildReport(c *catalog.Catalog, raw []float64) (schema.BlendResult, error) {
	if len(raw) != c.Len() {
		return schema.BlendResult{}, schema.NewError(schema.KindInvalidInput,
			"got %d quantities for a catalog of %d ingredients", len(raw), c.Len())
	}

	result := schema.BlendResult{Lines: []schema.BlendLine{}}
	total := decimal.Zero
	for i, q := range raw {
		if !(q > schema.DefaultEpsilon) {
			continue
		}
		quantity := decimal.NewFromFloat(q)
		cost := quantity.Mul(decimal.NewFromFloat(c.Price(i))).Round(schema.DisplayPrecision)
		result.Lines = append(result.Lines, schema.BlendLine{
			Ingredient: c.Name(i),
			Quantity:   quantity.Round(schema.DisplayPrecision).InexactFloat64(),
			Cost:       cost.InexactFloat64(),
		})
		total = total.Add(cost)
	}
	result.TotalCost = total.Round(schema.DisplayPrecision).InexactFloat64()
	return result, nil
}

// NutrientLevels computes the achieved concentration of every required nutrient from the
// unrounded quantities, in requirement order.
func NutrientLevels(c *catalog.Catalog, raw []float64, reqs schema.Requirements, mass float64) []schema.NutrientLevel {
	levels := make([]schema.NutrientLevel, 0, len(reqs))
	for _, r := range reqs {
		var amount float64
		for i, q := range raw {
			amount += q * c.Fraction(i, r.Nutrient)
		}
		achieved := 0.0
		if mass > 0 {
			achieved = amount / mass
		}
		levels = append(levels, schema.NutrientLevel{
			Nutrient: r.Nutrient,
			Required: r.MinimumFraction,
			Achieved: achieved,
			Amount:   amount,
		})
	}
	return levels
}

// ObjectiveValue returns the unrounded cost of raw quantities.
func ObjectiveValue(c *catalog.Catalog, raw []float64) float64 {
	var total float64
	for i, q := range raw {
		total += q * c.Price(i)
	}
	return total
}
