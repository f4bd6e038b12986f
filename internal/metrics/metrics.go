// Package metrics collects Prometheus metrics for formulation runs and flushes them
// to a node-exporter textfile.
package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds a private registry and the formulation metrics registered on it.
type Recorder struct {
	registry *prometheus.Registry

	runsTotal     *prometheus.CounterVec   // by profile and status
	solveDuration *prometheus.HistogramVec // by profile
	rationCost    *prometheus.GaugeVec     // last total cost by profile
	failuresTotal *prometheus.CounterVec   // by error kind
	ingredients   *prometheus.GaugeVec     // ingredients present in the last blend
}

// NewRecorder returns a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ration_formulations_total",
			Help: "Total number of formulation runs",
		}, []string{"profile", "status"}),
		solveDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ration_solve_duration_seconds",
			Help:    "Duration of the simplex solve in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}, []string{"profile"}),
		rationCost: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ration_total_cost",
			Help: "Total cost of the last formulated ration",
		}, []string{"profile"}),
		failuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ration_formulation_failures_total",
			Help: "Total number of failed formulation runs by error kind",
		}, []string{"kind"}),
		ingredients: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ration_blend_ingredients",
			Help: "Number of ingredients present in the last formulated ration",
		}, []string{"profile"}),
	}
}

// ObserveSuccess records a successful formulation.
func (r *Recorder) ObserveSuccess(result schema.BlendResult) {
	profile := profileLabel(result.Profile)
	r.runsTotal.WithLabelValues(profile, string(schema.RunSucceeded)).Inc()
	r.solveDuration.WithLabelValues(profile).Observe(result.SolveDuration.Seconds())
	r.rationCost.WithLabelValues(profile).Set(result.TotalCost)
	r.ingredients.WithLabelValues(profile).Set(float64(len(result.Lines)))
}

// ObserveFailure records a failed formulation and its error kind.
func (r *Recorder) ObserveFailure(profile string, elapsed time.Duration, err error) {
	profile = profileLabel(profile)
	r.runsTotal.WithLabelValues(profile, string(schema.RunFailed)).Inc()
	r.solveDuration.WithLabelValues(profile).Observe(elapsed.Seconds())

	kind := schema.KindOf(err)
	if kind == "" {
		kind = "unknown"
	}
	r.failuresTotal.WithLabelValues(string(kind)).Inc()
}

// Gatherer exposes the registry for tests and exporters.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteToTextfile writes all metrics in the text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteToTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics file %s: %w", path, err)
	}
	return nil
}

func profileLabel(profile string) string {
	if profile == "" {
		return "custom"
	}
	return profile
}

var (
	defaultRecorder *Recorder
	defaultOnce     sync.Once
)

// Default returns the process-wide Recorder.
func Default() *Recorder {
	defaultOnce.Do(func() {
		defaultRecorder = NewRecorder()
	})
	return defaultRecorder
}
