// Package catalog holds the immutable ingredient table used by formulation runs.
package catalog

import (
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
)

var validate = validator.New()

// Catalog is an ordered, name-indexed collection of ingredients.
// It is never mutated after construction, so it is safe for concurrent use.
type Catalog struct {
	ingredients []schema.Ingredient
	index       map[string]int
}

// New validates the ingredients and builds a catalog preserving their order.
// Duplicate names fail with KindDuplicateIngredient; malformed records with KindInvalidInput.
func New(ingredients []schema.Ingredient) (*Catalog, error) {
	if len(ingredients) == 0 {
		return nil, schema.NewError(schema.KindInvalidInput, "catalog must contain at least one ingredient")
	}

	c := &Catalog{
		ingredients: make([]schema.Ingredient, 0, len(ingredients)),
		index:       make(map[string]int, len(ingredients)),
	}
	for pos, ing := range ingredients {
		if err := validateIngredient(ing); err != nil {
			return nil, schema.WrapError(schema.KindInvalidInput, "invalid ingredient record", err).
				WithContext("position", pos).
				WithContext("name", ing.Name)
		}
		if first, ok := c.index[ing.Name]; ok {
			return nil, schema.NewError(schema.KindDuplicateIngredient, "ingredient %q appears at positions %d and %d", ing.Name, first, pos).
				WithContext("name", ing.Name)
		}
		c.index[ing.Name] = len(c.ingredients)
		c.ingredients = append(c.ingredients, ing.Clone())
	}
	return c, nil
}

// Default returns the built-in dairy catalog.
func Default() *Catalog {
	c, err := New(schema.DairyIngredients())
	if err != nil {
		panic(err) // built-in data is always valid
	}
	return c
}

func validateIngredient(ing schema.Ingredient) error {
	if strings.TrimSpace(ing.Name) == "" {
		return schema.NewError(schema.KindInvalidInput, "ingredient name is empty")
	}
	if math.IsInf(ing.UnitPrice, 0) {
		return schema.NewError(schema.KindInvalidInput, "price of %q is not finite", ing.Name)
	}
	return validate.Struct(ing)
}

// Len returns the number of ingredients.
func (c *Catalog) Len() int {
	return len(c.ingredients)
}

// Lookup returns a copy of the named ingredient.
func (c *Catalog) Lookup(name string) (schema.Ingredient, bool) {
	i, ok := c.index[name]
	if !ok {
		return schema.Ingredient{}, false
	}
	return c.ingredients[i].Clone(), true
}

// IndexOf returns the catalog position of the named ingredient.
func (c *Catalog) IndexOf(name string) (int, bool) {
	i, ok := c.index[name]
	return i, ok
}

// Name returns the name of the ingredient at position i.
func (c *Catalog) Name(i int) string {
	return c.ingredients[i].Name
}

// Price returns the unit price of the ingredient at position i.
func (c *Catalog) Price(i int) float64 {
	return c.ingredients[i].UnitPrice
}

// Fraction returns the content fraction of nutrient n in the ingredient at position i.
func (c *Catalog) Fraction(i int, n schema.Nutrient) float64 {
	return c.ingredients[i].Fraction(n)
}

// Names returns ingredient names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.ingredients))
	for i, ing := range c.ingredients {
		names[i] = ing.Name
	}
	return names
}

// Ingredients returns deep copies of all ingredients in catalog order.
func (c *Catalog) Ingredients() []schema.Ingredient {
	out := make([]schema.Ingredient, len(c.ingredients))
	for i, ing := range c.ingredients {
		out[i] = ing.Clone()
	}
	return out
}

// MaxFraction returns the highest content of nutrient n across the catalog.
func (c *Catalog) MaxFraction(n schema.Nutrient) float64 {
	best := 0.0
	for _, ing := range c.ingredients {
		best = max(best, ing.Fraction(n))
	}
	return best
}

// Cheapest returns the name of the lowest-priced ingredient (first on ties).
func (c *Catalog) Cheapest() string {
	best := 0
	for i, ing := range c.ingredients {
		if ing.UnitPrice < c.ingredients[best].UnitPrice {
			best = i
		}
	}
	return c.ingredients[best].Name
}
