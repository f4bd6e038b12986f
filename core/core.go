// Package core has core logic for loading catalogs, formulating rations and reporting them.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/core/catalog"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/contract"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/dataload"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/metrics"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/outwriter"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ExecutorFunc defines the function signature for executing the CLI commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error

// ExecuteFormulate formulates the configured profile and prints the ration.
// It serves as the main entry point for the 'formulate' command.
func ExecuteFormulate(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	start := time.Now()
	result, err := GetFormulationResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteBlend(result, cfg, time.Since(start))
}

// ExecuteBatch formulates every batch profile concurrently and prints the results in profile order.
func ExecuteBatch(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	batch, err := GetBatchResult(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteBatch(batch, cfg)
}

// ExecuteCatalog prints the ingredients of the configured catalog.
func ExecuteCatalog(_ context.Context, cfg *contract.Config, _ contract.HistoryManager) error {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteCatalog(cat.Ingredients(), cfg)
}

// ExecuteProfiles prints every known requirement profile.
func ExecuteProfiles(_ context.Context, cfg *contract.Config, _ contract.HistoryManager) error {
	return outwriter.NewOutWriter().WriteProfiles(GetProfiles(cfg), cfg)
}

// GetFormulationResult formulates the configured profile with its resolved requirements.
func GetFormulationResult(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) (schema.BlendResult, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return schema.BlendResult{}, err
	}
	return runFormulation(ctx, cfg, mgr, cat, cfg.ProfileName, cfg.Requirements)
}

// GetBatchResult formulates cfg.BatchProfiles with at most cfg.Workers solver runs at a time.
// A failing profile is reported in its entry and does not stop the others.
func GetBatchResult(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) (schema.BatchResult, error) {
	start := time.Now()
	if len(cfg.BatchProfiles) == 0 {
		return schema.BatchResult{}, schema.NewError(schema.KindInvalidInput, "no profiles to formulate")
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return schema.BatchResult{}, err
	}

	// All names are resolved before any solver run starts.
	requirements := make([]schema.Requirements, len(cfg.BatchProfiles))
	for i, name := range cfg.BatchProfiles {
		reqs, ok := cfg.Profiles[name]
		if !ok {
			return schema.BatchResult{}, schema.NewError(schema.KindInvalidInput, "unknown profile %q", name)
		}
		requirements[i] = reqs
	}

	entries := make([]schema.BatchEntry, len(cfg.BatchProfiles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cfg.Workers))

	for i, name := range cfg.BatchProfiles {
		g.Go(func() error {
			entry := schema.BatchEntry{Profile: name}
			result, err := runFormulation(gctx, cfg, mgr, cat, name, requirements[i])
			if err != nil {
				entry.Error = err.Error()
				entry.Kind = schema.KindOf(err)
			} else {
				entry.Result = &result
			}
			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return schema.BatchResult{}, err
	}

	loggerFromContext(ctx).Debug("batch finished",
		zap.Int("profiles", len(entries)),
		zap.Int("workers", cfg.Workers),
		zap.Duration("duration", time.Since(start)))
	return schema.BatchResult{Entries: entries, Duration: time.Since(start)}, nil
}

// GetProfiles returns every known profile in name order.
func GetProfiles(cfg *contract.Config) []schema.Profile {
	names := cfg.ProfileNames()
	profiles := make([]schema.Profile, len(names))
	for i, name := range names {
		profiles[i] = schema.Profile{Name: name, Requirements: cfg.Profiles[name]}
	}
	return profiles
}

// GetCatalog loads the configured catalog.
func GetCatalog(cfg *contract.Config) (*catalog.Catalog, error) {
	return loadCatalog(cfg)
}

// FlushMetrics writes the collected metrics to cfg.MetricsFile when one is configured.
func FlushMetrics(cfg *contract.Config) error {
	if cfg.MetricsFile == "" {
		return nil
	}
	return metrics.Default().WriteToTextfile(cfg.MetricsFile)
}

func loadCatalog(cfg *contract.Config) (*catalog.Catalog, error) {
	cat, err := dataload.LoadCatalog(cfg.CatalogPath, cfg.PercentUnits)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}
