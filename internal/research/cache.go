package research

import (
	"context"
	"sync"
	"time"

	"github.com/augurlabs/AugurGo/internal/models"
	"github.com/augurlabs/AugurGo/internal/storage/sqlite"
)

// StalenessWindow is the maximum age of a cached result before it stops
// counting as a hit. Older entries remain in storage for history only.
const StalenessWindow = 24 * time.Hour

// CacheEntry is one stored run for a (user, market) key.
type CacheEntry struct {
	UserID    string
	MarketID  string
	Result    models.MarketResearchResult
	CreatedAt time.Time
}

// Cache wraps the append-only sqlite log with an in-memory latest-pointer
// index per (user, market) key, so repeat lookups inside one process skip
// the store.
type Cache struct {
	store *sqlite.Store
	ttl   time.Duration

	mu     sync.RWMutex
	latest map[string]*CacheEntry
}

func NewCache(store *sqlite.Store) *Cache {
	return &Cache{
		store:  store,
		ttl:    StalenessWindow,
		latest: make(map[string]*CacheEntry),
	}
}

func cacheKey(userID, marketID string) string {
	return userID + "\x00" + marketID
}

// Lookup returns the most recent entry for (userID, marketID), or nil when
// none has ever been stored.
func (c *Cache) Lookup(ctx context.Context, userID, marketID string) (*CacheEntry, error) {
	key := cacheKey(userID, marketID)

	c.mu.RLock()
	if entry, ok := c.latest[key]; ok {
		c.mu.RUnlock()
		return entry, nil
	}
	c.mu.RUnlock()

	rec, err := c.store.Latest(ctx, userID, marketID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}

	entry := &CacheEntry{
		UserID:    rec.UserID,
		MarketID:  rec.MarketID,
		Result:    rec.Result,
		CreatedAt: rec.CreatedAt,
	}
	c.mu.Lock()
	c.latest[key] = entry
	c.mu.Unlock()
	return entry, nil
}

// IsStale reports whether the entry is too old to serve as a cache hit.
func (c *Cache) IsStale(entry *CacheEntry) bool {
	if entry == nil {
		return true
	}
	return time.Since(entry.CreatedAt) > c.ttl
}

// Store appends a new immutable entry and advances the latest pointer.
// Prior entries are kept for history.
func (c *Cache) Store(ctx context.Context, userID string, result models.MarketResearchResult) error {
	createdAt := result.CompletedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	if err := c.store.Append(ctx, userID, result, createdAt); err != nil {
		return err
	}

	entry := &CacheEntry{
		UserID:    userID,
		MarketID:  result.MarketID,
		Result:    result,
		CreatedAt: createdAt,
	}
	c.mu.Lock()
	c.latest[cacheKey(userID, result.MarketID)] = entry
	c.mu.Unlock()
	return nil
}
