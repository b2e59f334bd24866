package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/augurlabs/AugurGo/internal/models"
)

// marketCacheTTL bounds how long a fetched market is served from memory
// before the backing catalog is asked again.
const marketCacheTTL = 5 * time.Minute

type cachedMarket struct {
	market    models.Market
	fetchedAt time.Time
}

// CachedCatalog wraps another Catalog with an in-memory TTL cache for
// GetMarket. ListMarkets always goes to the backing catalog; listings
// change too often to be worth caching.
type CachedCatalog struct {
	backing Catalog
	ttl     time.Duration

	mu      sync.RWMutex
	markets map[string]cachedMarket
}

func NewCachedCatalog(backing Catalog) *CachedCatalog {
	return &CachedCatalog{
		backing: backing,
		ttl:     marketCacheTTL,
		markets: make(map[string]cachedMarket),
	}
}

func (c *CachedCatalog) GetMarket(ctx context.Context, marketID string) (*models.Market, error) {
	c.mu.RLock()
	cached, ok := c.markets[marketID]
	c.mu.RUnlock()
	if ok && time.Since(cached.fetchedAt) <= c.ttl {
		m := cached.market
		return &m, nil
	}

	market, err := c.backing.GetMarket(ctx, marketID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.markets[marketID] = cachedMarket{market: *market, fetchedAt: time.Now()}
	c.mu.Unlock()
	return market, nil
}

func (c *CachedCatalog) ListMarkets(ctx context.Context, filter Filter) ([]models.Market, error) {
	return c.backing.ListMarkets(ctx, filter)
}

// Clear drops every cached market.
func (c *CachedCatalog) Clear() {
	c.mu.Lock()
	c.markets = make(map[string]cachedMarket)
	c.mu.Unlock()
}
