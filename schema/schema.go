// Package schema has models, error kinds and default data for all parts of the ration formulator.
package schema

import (
	"maps"
	"time"
)

// Ingredient is a single feed ingredient with its price and nutrient composition.
// Nutrient content is expressed as a fraction of the ingredient's mass.
type Ingredient struct {
	Name      string               `json:"name" yaml:"name" validate:"required"`
	UnitPrice float64              `json:"unit_price" yaml:"unit_price" validate:"gte=0"`
	Content   map[Nutrient]float64 `json:"content" yaml:"content" validate:"dive,keys,oneof=dry_matter crude_protein tdn calcium phosphorus,endkeys,gte=0,lte=1"`
}

// Fraction returns the content fraction of nutrient n (0 when absent).
func (i Ingredient) Fraction(n Nutrient) float64 {
	return i.Content[n]
}

// Clone returns a deep copy of the ingredient.
func (i Ingredient) Clone() Ingredient {
	clone := i
	if i.Content != nil {
		clone.Content = make(map[Nutrient]float64, len(i.Content))
		maps.Copy(clone.Content, i.Content)
	}
	return clone
}

// NutrientRequirement is the minimum concentration of a nutrient as a fraction of ration mass.
type NutrientRequirement struct {
	Nutrient        Nutrient `json:"nutrient" yaml:"nutrient"`
	MinimumFraction float64  `json:"minimum_fraction" yaml:"minimum_fraction"`
}

// Requirements is an ordered set of nutrient requirements for one formulation run.
type Requirements []NutrientRequirement

// Get returns the minimum fraction for nutrient n and whether it is required.
func (r Requirements) Get(n Nutrient) (float64, bool) {
	for _, req := range r {
		if req.Nutrient == n {
			return req.MinimumFraction, true
		}
	}
	return 0, false
}

// With returns a copy of r where nutrient n requires the given fraction.
// An existing entry keeps its position; a new one is appended.
func (r Requirements) With(n Nutrient, fraction float64) Requirements {
	out := make(Requirements, 0, len(r)+1)
	replaced := false
	for _, req := range r {
		if req.Nutrient == n {
			req.MinimumFraction = fraction
			replaced = true
		}
		out = append(out, req)
	}
	if !replaced {
		out = append(out, NutrientRequirement{Nutrient: n, MinimumFraction: fraction})
	}
	return out
}

// RequirementsFromMap builds requirements in canonical nutrient order from a nutrient map.
func RequirementsFromMap(m map[Nutrient]float64) Requirements {
	out := make(Requirements, 0, len(m))
	for _, n := range AllNutrients {
		if v, ok := m[n]; ok {
			out = append(out, NutrientRequirement{Nutrient: n, MinimumFraction: v})
		}
	}
	return out
}

// RationSpec holds the fixed total mass the ration must sum to.
type RationSpec struct {
	TargetTotalMass float64 `json:"target_total_mass"`
}

// Profile is a named requirement set, e.g. "dairy".
type Profile struct {
	Name         string       `json:"name"`
	Requirements Requirements `json:"requirements"`
}

// BlendLine is one ingredient of a formulated ration, rounded for display.
type BlendLine struct {
	Ingredient string  `json:"ingredient"`
	Quantity   float64 `json:"quantity"`
	Cost       float64 `json:"cost"`
}

// NutrientLevel compares the achieved concentration of a nutrient with its requirement.
type NutrientLevel struct {
	Nutrient Nutrient `json:"nutrient"`
	Required float64  `json:"required"` // minimum fraction
	Achieved float64  `json:"achieved"` // fraction of target mass
	Amount   float64  `json:"amount"`   // absolute nutrient mass
}

// Surplus is the achieved fraction above the requirement.
func (l NutrientLevel) Surplus() float64 {
	return l.Achieved - l.Required
}

// BlendResult is the least-cost ration produced by one formulation run.
type BlendResult struct {
	RunID          string          `json:"run_id,omitempty"`
	Profile        string          `json:"profile,omitempty"`
	TargetMass     float64         `json:"target_mass"`
	Lines          []BlendLine     `json:"lines"`
	TotalCost      float64         `json:"total_cost"`      // sum of rounded line costs
	ObjectiveValue float64         `json:"objective_value"` // unrounded solver optimum
	Nutrients      []NutrientLevel `json:"nutrients,omitempty"`
	SolveDuration  time.Duration   `json:"solve_duration_ns"`
}

// TotalQuantity sums the rounded quantities of all lines.
func (b BlendResult) TotalQuantity() float64 {
	var total float64
	for _, l := range b.Lines {
		total += l.Quantity
	}
	return total
}

// Line returns the blend line for an ingredient and whether it is present.
func (b BlendResult) Line(name string) (BlendLine, bool) {
	for _, l := range b.Lines {
		if l.Ingredient == name {
			return l, true
		}
	}
	return BlendLine{}, false
}

// BatchEntry is the outcome of formulating one profile in a batch.
type BatchEntry struct {
	Profile string       `json:"profile"`
	Result  *BlendResult `json:"result,omitempty"`
	Error   string       `json:"error,omitempty"`
	Kind    ErrorKind    `json:"error_kind,omitempty"`
}

// BatchResult holds batch entries in profile order.
type BatchResult struct {
	Entries  []BatchEntry  `json:"entries"`
	Duration time.Duration `json:"duration_ns"`
}
