package algo

import (
	"math"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/core/catalog"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/core/report"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
	"gonum.org/v1/gonum/mat"
)

// model is the standard-form program min cᵀx s.t. Ax = b, x ≥ 0.
//
// Columns 0..n-1 are ingredient quantities and columns n..n+k-1 are surplus variables,
// one per requirement. Row 0 is the mass equality; row 1+j turns requirement j into
// Σ q[i]·f[i][j] - s[j] = minFraction[j]·mass.
type model struct {
	c           []float64
	a           *mat.Dense
	b           []float64
	ingredients int
}

func buildModel(cat *catalog.Catalog, reqs schema.Requirements, mass float64) model {
	n := cat.Len()
	k := len(reqs)
	rows, cols := 1+k, n+k

	c := make([]float64, cols)
	for i := range n {
		c[i] = cat.Price(i)
	}

	a := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)

	for i := range n {
		a.Set(0, i, 1)
	}
	b[0] = mass

	for j, r := range reqs {
		row := 1 + j
		for i := range n {
			a.Set(row, i, cat.Fraction(i, r.Nutrient))
		}
		a.Set(row, n+j, -1)
		b[row] = r.MinimumFraction * mass
	}

	return model{c: c, a: a, b: b, ingredients: n}
}

// quantities returns the ingredient part of a standard-form solution.
func (m model) quantities(x []float64) []float64 {
	out := make([]float64, m.ingredients)
	copy(out, x[:m.ingredients])
	return out
}

// verify re-checks the mass equality, every requirement and the reported objective
// against the unrounded solution.
func verify(cat *catalog.Catalog, reqs schema.Requirements, mass float64, q []float64, objective float64) error {
	tol := verifyTolerance * math.Max(1, mass)

	var total float64
	for i, v := range q {
		if v < -tol || math.IsNaN(v) {
			return schema.NewError(schema.KindSolverFailure, "negative quantity %g for %q", v, cat.Name(i))
		}
		total += v
	}
	if math.Abs(total-mass) > tol {
		return schema.NewError(schema.KindSolverFailure, "quantities sum to %g, want %g", total, mass)
	}

	for _, r := range reqs {
		var amount float64
		for i, v := range q {
			amount += v * cat.Fraction(i, r.Nutrient)
		}
		if need := r.MinimumFraction * mass; amount < need-tol {
			return schema.NewError(schema.KindSolverFailure, "%s supplied %g, want at least %g", r.Nutrient, amount, need)
		}
	}

	if cost := report.ObjectiveValue(cat, q); math.Abs(cost-objective) > verifyTolerance*math.Max(1, math.Abs(cost)) {
		return schema.NewError(schema.KindSolverFailure, "solver objective %g does not match blend cost %g", objective, cost)
	}
	return nil
}
