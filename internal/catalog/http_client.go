package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/augurlabs/AugurGo/internal/models"
)

// HTTPCatalog reads markets from a gamma-style markets API.
type HTTPCatalog struct {
	client *resty.Client
}

func NewHTTPCatalog(baseURL string) *HTTPCatalog {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(15 * time.Second)
	client.SetHeader("User-Agent", "AugurGo/1.0")

	return &HTTPCatalog{client: client}
}

func (c *HTTPCatalog) GetMarket(ctx context.Context, id string) (*models.Market, error) {
	resp, err := c.client.R().SetContext(ctx).Get("/markets/" + id)
	if err != nil {
		return nil, fmt.Errorf("fetch market %s: %w", id, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetch market %s: HTTP %d", id, resp.StatusCode())
	}

	var m models.Market
	if err := json.Unmarshal(resp.Body(), &m); err != nil {
		return nil, fmt.Errorf("decode market %s: %w", id, err)
	}
	if m.ID == "" {
		m.ID = id
	}
	return &m, nil
}

func (c *HTTPCatalog) ListMarkets(ctx context.Context, filter Filter) ([]models.Market, error) {
	req := c.client.R().SetContext(ctx)
	if filter.EventID != "" {
		req.SetQueryParam("event_id", filter.EventID)
	}
	if filter.Status != "" {
		req.SetQueryParam("status", string(filter.Status))
	}
	if filter.Limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(filter.Limit))
	}

	resp, err := req.Get("/markets")
	if err != nil {
		return nil, fmt.Errorf("list markets: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("list markets: HTTP %d", resp.StatusCode())
	}

	var markets []models.Market
	if err := json.Unmarshal(resp.Body(), &markets); err != nil {
		return nil, fmt.Errorf("decode markets: %w", err)
	}
	return markets, nil
}
