package gather

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"

	"github.com/augurlabs/AugurGo/internal/models"
)

// QuoteSnapshot is one price observation for a tradable asset tied to a
// market question.
type QuoteSnapshot struct {
	Symbol  string          `json:"symbol"`
	Price   decimal.Decimal `json:"price"`
	DayHigh decimal.Decimal `json:"day_high"`
	DayLow  decimal.Decimal `json:"day_low"`
	AsOf    time.Time       `json:"as_of"`
}

// QuoteProvider supplies current quotes for questions that reference a
// price level.
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (*QuoteSnapshot, error)
}

// YahooQuoteProvider fetches quotes from Yahoo Finance with a 1 hour
// file cache.
type YahooQuoteProvider struct {
	cache *CacheManager
}

func NewYahooQuoteProvider(cacheDir string, cacheEnabled bool) *YahooQuoteProvider {
	return &YahooQuoteProvider{
		cache: NewCacheManager(cacheDir, time.Hour, cacheEnabled),
	}
}

func (p *YahooQuoteProvider) Quote(ctx context.Context, symbol string) (*QuoteSnapshot, error) {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("symbol cannot be empty")
	}

	var cached QuoteSnapshot
	if p.cache.Get("yahoo", "quote", symbol, &cached) {
		return &cached, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var result *QuoteSnapshot
	err := WithRetry(DefaultRetryConfig(), func() error {
		q, err := quote.Get(symbol)
		if err != nil {
			return fmt.Errorf("failed to get quote for %s: %w", symbol, err)
		}

		result = &QuoteSnapshot{
			Symbol:  symbol,
			Price:   decimal.NewFromFloat(q.RegularMarketPrice),
			DayHigh: decimal.NewFromFloat(q.RegularMarketDayHigh),
			DayLow:  decimal.NewFromFloat(q.RegularMarketDayLow),
			AsOf:    time.Now(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.cache.Set("yahoo", "quote", symbol, result)
	return result, nil
}

// quoteSource renders a snapshot as an evidence source so the grading
// and analysis passes can treat price data like any other citation.
func quoteSource(snap *QuoteSnapshot, strat models.ResearchStrategy) models.RawSource {
	snippet := fmt.Sprintf("%s last traded at %s (day range %s to %s).",
		snap.Symbol, snap.Price.StringFixed(2), snap.DayLow.StringFixed(2), snap.DayHigh.StringFixed(2))
	for _, threshold := range strat.Thresholds {
		level := decimal.NewFromFloat(threshold)
		cmp := "below"
		if snap.Price.GreaterThanOrEqual(level) {
			cmp = "at or above"
		}
		snippet += fmt.Sprintf(" Price is %s the %s level.", cmp, level.StringFixed(0))
	}

	return models.RawSource{
		URL:         "https://finance.yahoo.com/quote/" + snap.Symbol,
		Domain:      "finance.yahoo.com",
		Title:       fmt.Sprintf("%s quote: %s", snap.Symbol, snap.Price.StringFixed(2)),
		Snippet:     snippet,
		PublishedAt: snap.AsOf,
	}
}
