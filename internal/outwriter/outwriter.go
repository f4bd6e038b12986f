// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/contract"
	"github.com/norberto-enomoto/racao-custo-minimo-simplex/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteBlend prints a formulated ration using the configured output format.
func (ow *OutWriter) WriteBlend(result schema.BlendResult, cfg *contract.Config, duration time.Duration) error {
	return WriteBlendResult(result, cfg, duration)
}

// WriteBatch prints the rations of a batch run using the configured output format.
func (ow *OutWriter) WriteBatch(batch schema.BatchResult, cfg *contract.Config) error {
	return WriteBatchResult(batch, cfg)
}

// WriteCatalog prints the ingredient catalog using the configured output format.
func (ow *OutWriter) WriteCatalog(ingredients []schema.Ingredient, cfg *contract.Config) error {
	return WriteCatalogListing(ingredients, cfg)
}

// WriteProfiles prints the requirement profiles using the configured output format.
func (ow *OutWriter) WriteProfiles(profiles []schema.Profile, cfg *contract.Config) error {
	return WriteProfileListing(profiles, cfg)
}
