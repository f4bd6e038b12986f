// Package history records formulation runs and their blends in SQL databases.
package history

import (
	"embed"
	"sync"

	"github.com/norberto-enomoto/racao-custo-minimo-simplex/internal/contract"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// HistoryStoreManager manages the HistoryStore instance.
type HistoryStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	store        contract.HistoryStore
}

var _ contract.HistoryManager = &HistoryStoreManager{} // Compile-time check

// GetHistoryStore returns the HistoryStore.
func (mgr *HistoryStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.store
}
