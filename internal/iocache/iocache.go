// Package iocache persists enhanced datasets and scoring run history.
package iocache

import (
	"sync"

	"github.com/huangsam/scholar/internal/contract"
)

// StoreManager manages the dataset cache and run history stores.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	dataset      contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &StoreManager{} // Compile-time check

// GetDatasetStore returns the enhanced dataset CacheStore, or nil when caching is disabled.
func (mgr *StoreManager) GetDatasetStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.dataset
}

// GetHistoryStore returns the run HistoryStore, or nil when history is disabled.
func (mgr *StoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
