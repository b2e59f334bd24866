package catalog

import (
	"context"
	"sync"

	"github.com/augurlabs/AugurGo/internal/models"
)

// StaticCatalog serves markets from memory. Used when no catalog endpoint
// is configured and in tests.
type StaticCatalog struct {
	mu      sync.RWMutex
	markets map[string]models.Market
	order   []string
}

func NewStaticCatalog(markets ...models.Market) *StaticCatalog {
	c := &StaticCatalog{markets: make(map[string]models.Market, len(markets))}
	for _, m := range markets {
		c.markets[m.ID] = m
		c.order = append(c.order, m.ID)
	}
	return c
}

func (c *StaticCatalog) Add(m models.Market) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.markets[m.ID]; !exists {
		c.order = append(c.order, m.ID)
	}
	c.markets[m.ID] = m
}

func (c *StaticCatalog) GetMarket(ctx context.Context, id string) (*models.Market, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.markets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (c *StaticCatalog) ListMarkets(ctx context.Context, filter Filter) ([]models.Market, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []models.Market
	for _, id := range c.order {
		m := c.markets[id]
		if filter.EventID != "" && m.EventID != filter.EventID {
			continue
		}
		if filter.Status != "" && m.Status != filter.Status {
			continue
		}
		out = append(out, m)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}
