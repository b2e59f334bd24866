package models

import "time"

// ResearchStrategy is the ordered plan of search queries and focus areas
// derived from a market question. Created fresh per run; never persisted
// on its own.
type ResearchStrategy struct {
	MarketID   string   `json:"market_id"`
	Queries    []string `json:"queries"`
	FocusAreas []string `json:"focus_areas,omitempty"`

	// Extracted signals the planner found in the question.
	Entities   []string  `json:"entities,omitempty"`
	Thresholds []float64 `json:"thresholds,omitempty"`
	Deadline   time.Time `json:"deadline,omitempty"`

	// AssetSymbol is set when the question concerns a quoted asset and a
	// price threshold, so the gatherer can attach live quote evidence.
	AssetSymbol string `json:"asset_symbol,omitempty"`

	// Fallback marks a generic strategy built from the raw question text
	// because no entities could be extracted.
	Fallback bool `json:"fallback,omitempty"`
}
