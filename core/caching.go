package core

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/scholar/core/algo"
	"github.com/huangsam/scholar/internal/contract"
	"github.com/huangsam/scholar/internal/dataset"
	"github.com/huangsam/scholar/internal/logger"
	"github.com/huangsam/scholar/schema"
	"go.uber.org/zap"
)

// currentCacheVersion must be bumped whenever the enhancer's draws change.
const currentCacheVersion = 1

// cacheMaxAge is how long an enhanced dataset stays valid.
const cacheMaxAge = 7 * 24 * time.Hour

// cachedEnhance enhances the dataset, consulting the dataset cache first.
// Only seeded runs are cacheable since unseeded runs must differ every time.
func cachedEnhance(ds *dataset.Dataset, seed *uint64, store contract.CacheStore) ([]schema.EnhancedRecord, error) {
	if store == nil || seed == nil {
		return algo.EnhanceWithSeed(ds.Records, seed)
	}

	key := generateCacheKey(ds.Raw, *seed)
	if records, ok := checkCacheHit(store, key); ok {
		logger.L().Debug("enhanced dataset cache hit", zap.String("key", key))
		return records, nil
	}
	return computeAndStore(ds, seed, store, key)
}

// checkCacheHit returns the cached records when the entry exists, has the
// current version and is fresh.
func checkCacheHit(store contract.CacheStore, key string) ([]schema.EnhancedRecord, bool) {
	data, version, ts, err := store.Get(key)
	if err != nil || version != currentCacheVersion {
		return nil, false
	}
	if time.Since(time.Unix(ts, 0)) > cacheMaxAge {
		return nil, false
	}
	var records []schema.EnhancedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		logger.L().Debug("discarding unreadable cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return records, true
}

// computeAndStore enhances the dataset and writes the result to the cache.
// Cache write failures are logged and otherwise ignored.
func computeAndStore(ds *dataset.Dataset, seed *uint64, store contract.CacheStore, key string) ([]schema.EnhancedRecord, error) {
	records, err := algo.EnhanceWithSeed(ds.Records, seed)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(records)
	if err != nil {
		contract.LogWarn("Failed to encode enhanced dataset for cache", err)
		return records, nil
	}
	if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
		contract.LogWarn("Failed to write enhanced dataset cache", err)
	}
	return records, nil
}

// generateCacheKey derives the cache key from the dataset bytes and the seed.
func generateCacheKey(raw []byte, seed uint64) string {
	h := sha256.New()
	h.Write(raw)
	_, _ = fmt.Fprintf(h, "|seed=%d|v=%d", seed, currentCacheVersion)
	return hex.EncodeToString(h.Sum(nil))
}
