package outwriter

import (
	"time"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/contract"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
)

// testConfig returns a config for plain text output to stdout.
func testConfig() *contract.Config {
	return &contract.Config{
		Output:         schema.TextOut,
		Precision:      2,
		Currency:       "R$",
		Width:          120,
		Workers:        2,
		HistoryBackend: schema.NoneBackend,
	}
}

func dairyBlend() schema.BlendResult {
	return schema.BlendResult{
		RunID:      "5e0c1b8e-4f7a-4c1d-9a53-0b2f8f3c6d11",
		Profile:    "dairy",
		TargetMass: 20,
		Lines: []schema.BlendLine{
			{Ingredient: "Silagem de Milho", Quantity: 14.17, Cost: 11.33},
			{Ingredient: "Farelo de Soja", Quantity: 4.58, Cost: 16.02},
			{Ingredient: "Milho Moído", Quantity: 0.86, Cost: 1.71},
			{Ingredient: "Minerais", Quantity: 0.40, Cost: 1.59},
		},
		TotalCost:      30.65,
		ObjectiveValue: 30.659143968871597,
		Nutrients: []schema.NutrientLevel{
			{Nutrient: schema.CrudeProtein, Required: 0.16, Achieved: 0.16, Amount: 3.2},
			{Nutrient: schema.Calcium, Required: 0.006, Achieved: 0.0075, Amount: 0.15},
		},
		SolveDuration: 1500 * time.Microsecond,
	}
}
