package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dairyResult() schema.BlendResult {
	return schema.BlendResult{
		Profile:    "dairy",
		TargetMass: 20,
		Lines: []schema.BlendLine{
			{Ingredient: "Silagem de Milho", Quantity: 14.17, Cost: 11.33},
			{Ingredient: "Farelo de Soja", Quantity: 4.58, Cost: 16.02},
			{Ingredient: "Milho Moído", Quantity: 0.86, Cost: 1.71},
			{Ingredient: "Minerais", Quantity: 0.40, Cost: 1.59},
		},
		TotalCost:     30.65,
		SolveDuration: 3 * time.Millisecond,
	}
}

func TestRecorder_ObserveSuccess(t *testing.T) {
	r := NewRecorder()
	r.ObserveSuccess(dairyResult())
	r.ObserveSuccess(dairyResult())

	assert.Equal(t, 2.0, testutil.ToFloat64(r.runsTotal.WithLabelValues("dairy", "succeeded")))
	assert.Equal(t, 30.65, testutil.ToFloat64(r.rationCost.WithLabelValues("dairy")))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.ingredients.WithLabelValues("dairy")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.solveDuration))
}

func TestRecorder_ObserveFailure(t *testing.T) {
	r := NewRecorder()
	infeasible := schema.NewError(schema.KindInfeasible, "no blend satisfies calcium")

	r.ObserveFailure("", time.Millisecond, infeasible)
	r.ObserveFailure("dairy", time.Millisecond, os.ErrNotExist)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.runsTotal.WithLabelValues("custom", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.failuresTotal.WithLabelValues("INFEASIBLE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.failuresTotal.WithLabelValues("unknown")))
}

func TestRecorder_Gatherer(t *testing.T) {
	r := NewRecorder()
	r.ObserveSuccess(dairyResult())

	expected := `
# HELP ration_total_cost Total cost of the last formulated ration
# TYPE ration_total_cost gauge
ration_total_cost{profile="dairy"} 30.65
`
	err := testutil.GatherAndCompare(r.Gatherer(), strings.NewReader(expected), "ration_total_cost")
	assert.NoError(t, err)
}

func TestRecorder_WriteToTextfile(t *testing.T) {
	r := NewRecorder()
	r.ObserveSuccess(dairyResult())

	path := filepath.Join(t.TempDir(), "ration.prom")
	require.NoError(t, r.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `ration_formulations_total{profile="dairy",status="succeeded"} 1`)
	assert.Contains(t, string(data), "ration_solve_duration_seconds_bucket")

	err = r.WriteToTextfile(filepath.Join(t.TempDir(), "missing", "ration.prom"))
	assert.ErrorContains(t, err, "failed to write metrics file")
}

func TestDefault(t *testing.T) {
	assert.Same(t, Default(), Default())
}
