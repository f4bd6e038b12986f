package schema

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNutrient(t *testing.T) {
	tests := []struct {
		in   string
		want Nutrient
		ok   bool
	}{
		{"dry_matter", DryMatter, true},
		{"Dry-Matter", DryMatter, true},
		{"ms", DryMatter, true},
		{"PB", CrudeProtein, true},
		{"ndt", TDN, true},
		{" tdn ", TDN, true},
		{"ca", Calcium, true},
		{"p", Phosphorus, true},
		{"sodium", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseNutrient(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNutrientLabel(t *testing.T) {
	assert.Equal(t, "Crude Protein", CrudeProtein.Label())
	assert.Equal(t, "sodium", Nutrient("sodium").Label())
}

func TestRequirements_GetAndWith(t *testing.T) {
	reqs := DairyRequirements()

	v, ok := reqs.Get(Calcium)
	require.True(t, ok)
	assert.Equal(t, 0.006, v)

	updated := reqs.With(Calcium, 0.20)
	v, _ = updated.Get(Calcium)
	assert.Equal(t, 0.20, v)
	assert.Len(t, updated, len(reqs))
	assert.Equal(t, Calcium, updated[3].Nutrient, "existing entries keep their position")

	// Original untouched
	v, _ = reqs.Get(Calcium)
	assert.Equal(t, 0.006, v)

	partial := Requirements{{Nutrient: CrudeProtein, MinimumFraction: 0.1}}
	extended := partial.With(Phosphorus, 0.01)
	assert.Len(t, extended, 2)
	assert.Equal(t, Phosphorus, extended[1].Nutrient)

	_, ok = partial.Get(TDN)
	assert.False(t, ok)
}

func TestRequirementsFromMap_CanonicalOrder(t *testing.T) {
	reqs := RequirementsFromMap(map[Nutrient]float64{
		Phosphorus:   0.004,
		DryMatter:    0.4,
		CrudeProtein: 0.16,
	})
	require.Len(t, reqs, 3)
	assert.Equal(t, DryMatter, reqs[0].Nutrient)
	assert.Equal(t, CrudeProtein, reqs[1].Nutrient)
	assert.Equal(t, Phosphorus, reqs[2].Nutrient)
}

func TestIngredient_CloneIsDeep(t *testing.T) {
	orig := DairyIngredients()[0]
	clone := orig.Clone()
	clone.Content[DryMatter] = 0.99
	assert.Equal(t, 0.35, orig.Fraction(DryMatter))
	assert.Equal(t, 0.99, clone.Fraction(DryMatter))
	assert.Zero(t, Ingredient{}.Fraction(Calcium))
}

func TestDairyDefaults(t *testing.T) {
	ingredients := DairyIngredients()
	assert.Len(t, ingredients, 6)
	for _, ing := range ingredients {
		for _, n := range AllNutrients {
			f := ing.Fraction(n)
			assert.GreaterOrEqual(t, f, 0.0, "%s/%s", ing.Name, n)
			assert.LessOrEqual(t, f, 1.0, "%s/%s", ing.Name, n)
		}
	}
	assert.Len(t, DairyRequirements(), len(AllNutrients))
	assert.Contains(t, DefaultProfiles(), DefaultProfileName)
}

func TestFormulationError_Is(t *testing.T) {
	err := NewError(KindInfeasible, "no blend satisfies %d requirements", 5)
	assert.True(t, errors.Is(err, ErrInfeasible))
	assert.False(t, errors.Is(err, ErrUnbounded))
	assert.Equal(t, "[INFEASIBLE] no blend satisfies 5 requirements", err.Error())

	wrapped := fmt.Errorf("formulate dairy: %w", err)
	assert.True(t, errors.Is(wrapped, ErrInfeasible))
	assert.Equal(t, KindInfeasible, KindOf(wrapped))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
}

func TestFormulationError_WrapAndContext(t *testing.T) {
	cause := errors.New("singular basis")
	err := WrapError(KindSolverFailure, "simplex failed", cause).WithContext("rows", 6)
	assert.True(t, errors.Is(err, ErrSolverFailure))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, 6, err.Context["rows"])
	assert.Contains(t, err.Error(), "singular basis")
}
