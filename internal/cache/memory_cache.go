package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/epeers/divsim/internal/models"
)

// MemoryCache keeps recent projection results in memory so that the JSON
// view and the CSV downloads of the same upload are computed once.
type MemoryCache struct {
	results map[string]resultEntry
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
}

type resultEntry struct {
	result   *models.SimulationResult
	storedAt time.Time
}

// NewMemoryCache creates a new in-memory cache whose entries live for ttl
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		results: make(map[string]resultEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// ResultKey identifies a projection by its raw rows and parameters
func ResultKey(rows []models.HoldingRow, params models.SimulationParameters) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	// Encoding plain structs of strings and numbers cannot fail
	_ = enc.Encode(params)
	_ = enc.Encode(rows)
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached result if it is still fresh.
// Callers must treat the result as read-only.
func (c *MemoryCache) Get(key string) (*models.SimulationResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.results[key]
	if !exists {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		return nil, false
	}
	return entry.result, true
}

// Set caches a result and drops entries that have expired
func (c *MemoryCache) Set(key string, result *models.SimulationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.results {
		if now.Sub(e.storedAt) > c.ttl {
			delete(c.results, k)
		}
	}
	c.results[key] = resultEntry{
		result:   result,
		storedAt: now,
	}
}

// Len returns the number of stored entries, fresh or not
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}

// Clear removes all cached data
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	c.results = make(map[string]resultEntry)
	c.mu.Unlock()
}
