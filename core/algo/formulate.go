// Package algo builds the least-cost ration linear program and solves it with the simplex method.
package algo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/core/catalog"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/core/report"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	// solverTolerance is the zero threshold used inside the simplex iterations.
	solverTolerance = 1e-10

	// verifyTolerance scales with max(1, mass) when re-checking a solution.
	verifyTolerance = 1e-6
)

// Solution is the raw optimum of one formulation run.
type Solution struct {
	Quantities []float64 // catalog order, unrounded
	Objective  float64
	Duration   time.Duration
}

type options struct {
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures a formulation run.
type Option func(*options)

// WithTimeout bounds the time spent in the solver. Zero means only ctx applies.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithLogger sets the logger for solver diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Formulate computes the least-cost blend of the catalog that sums to spec.TargetTotalMass
// and meets every requirement. Failures are *schema.FormulationError values.
func Formulate(ctx context.Context, cat *catalog.Catalog, reqs schema.Requirements, spec schema.RationSpec, opts ...Option) (schema.BlendResult, error) {
	sol, err := Solve(ctx, cat, reqs, spec, opts...)
	if err != nil {
		return schema.BlendResult{}, err
	}

	result, err := report.BuildReport(cat, sol.Quantities)
	if err != nil {
		return schema.BlendResult{}, err
	}
	result.TargetMass = spec.TargetTotalMass
	result.ObjectiveValue = sol.Objective
	result.Nutrients = report.NutrientLevels(cat, sol.Quantities, reqs, spec.TargetTotalMass)
	result.SolveDuration = sol.Duration
	return result, nil
}

// Solve validates the inputs, builds the program and returns the unrounded optimum.
func Solve(ctx context.Context, cat *catalog.Catalog, reqs schema.Requirements, spec schema.RationSpec, opts ...Option) (Solution, error) {
	o := newOptions(opts)

	if err := validateInputs(cat, reqs, spec); err != nil {
		return Solution{}, err
	}

	mass := spec.TargetTotalMass
	m := buildModel(cat, reqs, mass)
	o.logger.Debug("formulating ration",
		zap.Int("ingredients", cat.Len()),
		zap.Int("requirements", len(reqs)),
		zap.Float64("target_mass", mass),
		zap.Duration("timeout", o.timeout),
	)

	start := time.Now()
	opt, x, err := runSimplex(ctx, m, o.timeout)
	duration := time.Since(start)
	if err != nil {
		ferr := classifySolverError(cat, reqs, err)
		o.logger.Debug("solver failed",
			zap.String("kind", string(ferr.Kind)),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return Solution{}, ferr
	}

	q := m.quantities(x)
	if err := verify(cat, reqs, mass, q, opt); err != nil {
		o.logger.Warn("solution failed verification", zap.Error(err))
		return Solution{}, err
	}

	o.logger.Debug("solver finished",
		zap.Float64("objective", opt),
		zap.Duration("duration", duration),
	)
	return Solution{Quantities: q, Objective: opt, Duration: duration}, nil
}

func validateInputs(cat *catalog.Catalog, reqs schema.Requirements, spec schema.RationSpec) error {
	if cat == nil || cat.Len() == 0 {
		return schema.NewError(schema.KindInvalidInput, "catalog is empty")
	}
	mass := spec.TargetTotalMass
	if !(mass > 0) || math.IsInf(mass, 1) {
		return schema.NewError(schema.KindInvalidInput, "target mass must be a positive finite number (got %g)", mass).
			WithContext("target_mass", mass)
	}

	seen := make(map[schema.Nutrient]struct{}, len(reqs))
	for _, r := range reqs {
		if _, ok := schema.ValidNutrients[r.Nutrient]; !ok {
			return schema.NewError(schema.KindInvalidInput, "unknown nutrient %q", r.Nutrient)
		}
		if _, dup := seen[r.Nutrient]; dup {
			return schema.NewError(schema.KindInvalidInput, "nutrient %q is required more than once", r.Nutrient)
		}
		seen[r.Nutrient] = struct{}{}
		if !(r.MinimumFraction >= 0 && r.MinimumFraction <= 1) {
			return schema.NewError(schema.KindInvalidInput, "minimum fraction of %s must be within [0,1] (got %g)", r.Nutrient, r.MinimumFraction)
		}
	}
	return nil
}

type simplexResult struct {
	opt float64
	x   []float64
	err error
}

// runSimplex invokes lp.Simplex under the ctx deadline and the optional time budget.
// lp.Simplex cannot be interrupted, so on timeout the goroutine finishes in the background.
func runSimplex(ctx context.Context, m model, timeout time.Duration) (float64, []float64, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	done := make(chan simplexResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- simplexResult{err: fmt.Errorf("simplex panicked: %v", r)}
			}
		}()
		opt, x, err := lp.Simplex(m.c, m.a, m.b, solverTolerance, nil)
		done <- simplexResult{opt: opt, x: x, err: err}
	}()

	select {
	case <-ctx.Done():
		return 0, nil, ctx.Err()
	case res := <-done:
		return res.opt, res.x, res.err
	}
}

func classifySolverError(cat *catalog.Catalog, reqs schema.Requirements, err error) *schema.FormulationError {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return schema.WrapError(schema.KindTimeout, "solver did not finish", err)
	case errors.Is(err, lp.ErrInfeasible):
		ferr := schema.WrapError(schema.KindInfeasible, "no blend satisfies all requirements", err)
		if over := unreachable(cat, reqs); len(over) > 0 {
			ferr.Message = fmt.Sprintf("no blend satisfies all requirements; unreachable: %s", strings.Join(over, ", "))
			ferr.WithContext("unreachable", over)
		}
		return ferr
	case errors.Is(err, lp.ErrUnbounded):
		return schema.WrapError(schema.KindUnbounded, "objective is unbounded below", err)
	default:
		return schema.WrapError(schema.KindSolverFailure, "simplex failed", err)
	}
}

// unreachable lists requirements above the richest ingredient's concentration.
func unreachable(cat *catalog.Catalog, reqs schema.Requirements) []string {
	var over []string
	for _, r := range reqs {
		if best := cat.MaxFraction(r.Nutrient); r.MinimumFraction > best {
			over = append(over, fmt.Sprintf("%s %.4g > max %.4g", r.Nutrient, r.MinimumFraction, best))
		}
	}
	return over
}
