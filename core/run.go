package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/core/algo"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/core/catalog"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/contract"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/metrics"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
	"go.uber.org/zap"
)

// runFormulation formulates one requirement profile and records the run in history and metrics.
// History failures are reported as warnings and never fail the formulation.
func runFormulation(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager, cat *catalog.Catalog, profile string, reqs schema.Requirements) (schema.BlendResult, error) {
	logger := loggerFromContext(ctx).With(zap.String("profile", profile))
	runUUID := uuid.NewString()

	// --- 0. Begin Run Tracking (if configured) ---
	var runID int64
	store := historyStore(mgr)
	start := time.Now()
	if store != nil {
		var err error
		runID, err = store.BeginRun(runUUID, profile, cfg.TargetMass, start, configParams(cfg, cat, reqs))
		if err != nil {
			contract.LogWarn("History tracking initialization failed", err)
		}
	}

	// --- 1. Formulation ---
	result, err := algo.Formulate(ctx, cat, reqs, cfg.RationSpec(),
		algo.WithTimeout(cfg.SolverTimeout),
		algo.WithLogger(logger),
	)
	end := time.Now()

	if err != nil {
		metrics.Default().ObserveFailure(profile, end.Sub(start), err)
		if store != nil && runID > 0 {
			outcome := schema.RunOutcome{EndTime: end, Status: schema.RunFailed, ErrorMessage: err.Error()}
			if endErr := store.EndRun(runID, outcome); endErr != nil {
				contract.LogWarn("Failed to finalize history tracking", endErr)
			}
		}
		return schema.BlendResult{}, err
	}

	result.RunID = runUUID
	result.Profile = profile
	metrics.Default().ObserveSuccess(result)

	// --- 2. End Run Tracking ---
	if store != nil && runID > 0 {
		for i, line := range result.Lines {
			if err := store.RecordBlendLine(runID, i+1, line); err != nil {
				logTrackingError("RecordBlendLine", profile, err)
			}
		}
		outcome := schema.RunOutcome{
			EndTime:         end,
			Status:          schema.RunSucceeded,
			TotalCost:       result.TotalCost,
			ObjectiveValue:  result.ObjectiveValue,
			IngredientCount: len(result.Lines),
		}
		if err := store.EndRun(runID, outcome); err != nil {
			contract.LogWarn("Failed to finalize history tracking", err)
		}
	}

	logger.Debug("formulation recorded",
		zap.String("run_id", runUUID),
		zap.Int64("history_id", runID),
		zap.Float64("total_cost", result.TotalCost))
	return result, nil
}

// historyStore returns the history store of mgr, or nil when tracking is unavailable.
func historyStore(mgr contract.HistoryManager) contract.HistoryStore {
	if mgr == nil {
		return nil
	}
	return mgr.GetHistoryStore()
}

// configParams captures the inputs of a run for the history record.
func configParams(cfg *contract.Config, cat *catalog.Catalog, reqs schema.Requirements) map[string]any {
	requirements := make(map[string]float64, len(reqs))
	for _, r := range reqs {
		requirements[string(r.Nutrient)] = r.MinimumFraction
	}
	catalogSource := cfg.CatalogPath
	if catalogSource == "" {
		catalogSource = "builtin"
	}
	return map[string]any{
		"catalog":        catalogSource,
		"ingredients":    cat.Len(),
		"target_mass":    cfg.TargetMass,
		"requirements":   requirements,
		"solver_timeout": cfg.SolverTimeout.String(),
	}
}

// logTrackingError logs database tracking errors to stderr without disrupting formulation.
func logTrackingError(operation, profile string, err error) {
	contract.LogWarn(fmt.Sprintf("History tracking failed for %s on profile %s", operation, profile), err)
}
