package catalog

import (
	"context"
	"errors"

	"github.com/augurlabs/AugurGo/internal/models"
)

// ErrNotFound is returned when a market id does not exist in the catalog.
var ErrNotFound = errors.New("market not found")

// Filter narrows a market listing.
type Filter struct {
	EventID string
	Status  models.MarketStatus
	Limit   int
}

// Catalog is the market catalog collaborator. The research core consumes
// it read-only: one market snapshot per run plus optional event siblings.
type Catalog interface {
	GetMarket(ctx context.Context, id string) (*models.Market, error)
	ListMarkets(ctx context.Context, filter Filter) ([]models.Market, error)
}

// EventSiblings returns the other markets sharing m's event group, used to
// broaden the research strategy. A market without an event has no context;
// listing failures degrade to no context rather than failing the run.
func EventSiblings(ctx context.Context, c Catalog, m models.Market) []models.Market {
	if m.EventID == "" {
		return nil
	}
	markets, err := c.ListMarkets(ctx, Filter{EventID: m.EventID})
	if err != nil {
		return nil
	}
	siblings := make([]models.Market, 0, len(markets))
	for _, candidate := range markets {
		if candidate.ID == m.ID {
			continue
		}
		siblings = append(siblings, candidate)
	}
	return siblings
}
