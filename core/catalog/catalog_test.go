package catalog

import (
	"errors"
	"math"
	"testing"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_PreservesOrderAndIndex(t *testing.T) {
	c, err := New(schema.DairyIngredients())
	require.NoError(t, err)

	assert.Equal(t, 6, c.Len())
	assert.Equal(t, []string{
		"Silagem de Milho", "Feno de Tifton", "Farelo de Soja",
		"Milho Moído", "Caroço de Algodão", "Minerais",
	}, c.Names())

	ing, ok := c.Lookup("Farelo de Soja")
	require.True(t, ok)
	assert.Equal(t, 3.50, ing.UnitPrice)
	assert.Equal(t, 0.45, ing.Fraction(schema.CrudeProtein))

	i, ok := c.IndexOf("Minerais")
	require.True(t, ok)
	assert.Equal(t, 5, i)
	assert.Equal(t, 4.00, c.Price(i))
	assert.Equal(t, 0.16, c.Fraction(i, schema.Calcium))

	_, ok = c.Lookup("Capim Elefante")
	assert.False(t, ok)
}

func TestNew_DuplicateIngredient(t *testing.T) {
	ingredients := schema.DairyIngredients()
	ingredients = append(ingredients, schema.Ingredient{Name: "Feno de Tifton", UnitPrice: 1.0})

	c, err := New(ingredients)
	assert.Nil(t, c)
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrDuplicateIngredient))
	assert.Equal(t, schema.KindDuplicateIngredient, schema.KindOf(err))
	assert.Contains(t, err.Error(), "Feno de Tifton")
}

func TestNew_InvalidRecords(t *testing.T) {
	tests := []struct {
		name        string
		ingredients []schema.Ingredient
	}{
		{"empty catalog", nil},
		{"empty name", []schema.Ingredient{{Name: "  ", UnitPrice: 1}}},
		{"negative price", []schema.Ingredient{{Name: "a", UnitPrice: -0.5}}},
		{"NaN price", []schema.Ingredient{{Name: "a", UnitPrice: math.NaN()}}},
		{"infinite price", []schema.Ingredient{{Name: "a", UnitPrice: math.Inf(1)}}},
		{"fraction above one", []schema.Ingredient{{Name: "a", UnitPrice: 1, Content: map[schema.Nutrient]float64{schema.DryMatter: 35}}}},
		{"negative fraction", []schema.Ingredient{{Name: "a", UnitPrice: 1, Content: map[schema.Nutrient]float64{schema.Calcium: -0.1}}}},
		{"unknown nutrient", []schema.Ingredient{{Name: "a", UnitPrice: 1, Content: map[schema.Nutrient]float64{"sodium": 0.1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.ingredients)
			require.Error(t, err)
			assert.True(t, errors.Is(err, schema.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestCatalog_IsImmutable(t *testing.T) {
	source := schema.DairyIngredients()
	c, err := New(source)
	require.NoError(t, err)

	// Mutating the source slice after construction has no effect.
	source[0].Content[schema.DryMatter] = 0.99
	source[0].UnitPrice = 100

	ing, _ := c.Lookup("Silagem de Milho")
	assert.Equal(t, 0.35, ing.Fraction(schema.DryMatter))
	assert.Equal(t, 0.80, ing.UnitPrice)

	// Mutating returned copies has no effect either.
	ing.Content[schema.DryMatter] = 0.5
	all := c.Ingredients()
	all[0].Content[schema.DryMatter] = 0.6
	assert.Equal(t, 0.35, c.Fraction(0, schema.DryMatter))
}

func TestCatalog_Aggregates(t *testing.T) {
	c := Default()
	assert.Equal(t, "Silagem de Milho", c.Cheapest())
	assert.Equal(t, 0.16, c.MaxFraction(schema.Calcium))
	assert.Equal(t, 0.45, c.MaxFraction(schema.CrudeProtein))
}
