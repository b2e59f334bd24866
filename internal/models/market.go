package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MarketStatus represents the lifecycle state of a prediction market.
type MarketStatus string

const (
	MarketStatusActive   MarketStatus = "active"
	MarketStatusClosed   MarketStatus = "closed"
	MarketStatusResolved MarketStatus = "resolved"
)

// Market is an immutable snapshot of a prediction market, fetched once per
// research run from the catalog collaborator.
type Market struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Slug     string `json:"slug,omitempty"`

	// Event grouping. Markets sharing an EventID are siblings under the
	// same parent event and broaden each other's research context.
	EventID    string `json:"event_id,omitempty"`
	EventTitle string `json:"event_title,omitempty"`

	Outcomes [2]string `json:"outcomes"`

	ResolutionDate   time.Time `json:"resolution_date,omitempty"`
	ResolutionSource string    `json:"resolution_source,omitempty"`

	YesPrice decimal.Decimal `json:"yes_price"`
	NoPrice  decimal.Decimal `json:"no_price"`
	Volume   decimal.Decimal `json:"volume"`

	Status    MarketStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at,omitempty"`
	UpdatedAt time.Time    `json:"updated_at,omitempty"`
}
