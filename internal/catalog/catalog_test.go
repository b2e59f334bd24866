package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/augurlabs/AugurGo/internal/models"
)

func TestStaticCatalogGetAndList(t *testing.T) {
	cat := NewStaticCatalog(
		models.Market{ID: "m1", EventID: "evt", Status: models.MarketStatusActive},
		models.Market{ID: "m2", EventID: "evt", Status: models.MarketStatusClosed},
		models.Market{ID: "m3", EventID: "other", Status: models.MarketStatusActive},
	)

	m, err := cat.GetMarket(context.Background(), "m2")
	if err != nil {
		t.Fatalf("GetMarket: %v", err)
	}
	if m.ID != "m2" {
		t.Fatalf("expected m2, got %s", m.ID)
	}

	if _, err := cat.GetMarket(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	markets, err := cat.ListMarkets(context.Background(), Filter{EventID: "evt"})
	if err != nil {
		t.Fatalf("ListMarkets: %v", err)
	}
	if len(markets) != 2 {
		t.Fatalf("expected 2 event markets, got %d", len(markets))
	}

	active, err := cat.ListMarkets(context.Background(), Filter{Status: models.MarketStatusActive, Limit: 1})
	if err != nil {
		t.Fatalf("ListMarkets active: %v", err)
	}
	if len(active) != 1 || active[0].ID != "m1" {
		t.Fatalf("expected [m1], got %+v", active)
	}
}

func TestEventSiblingsExcludesSelf(t *testing.T) {
	m1 := models.Market{ID: "m1", EventID: "evt"}
	cat := NewStaticCatalog(
		m1,
		models.Market{ID: "m2", EventID: "evt"},
		models.Market{ID: "m3", EventID: "evt"},
	)

	siblings := EventSiblings(context.Background(), cat, m1)
	if len(siblings) != 2 {
		t.Fatalf("expected 2 siblings, got %d", len(siblings))
	}
	for _, s := range siblings {
		if s.ID == "m1" {
			t.Fatalf("siblings must exclude the market itself")
		}
	}
}

func TestEventSiblingsWithoutEvent(t *testing.T) {
	cat := NewStaticCatalog(models.Market{ID: "m1"})
	if siblings := EventSiblings(context.Background(), cat, models.Market{ID: "m1"}); siblings != nil {
		t.Fatalf("market without event has no siblings, got %+v", siblings)
	}
}

func TestHTTPCatalogGetMarket(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/markets/m1":
			json.NewEncoder(w).Encode(models.Market{
				ID: "m1", Question: "Will it happen?", EventID: "evt", Status: models.MarketStatusActive,
			})
		case "/markets":
			if r.URL.Query().Get("event_id") != "evt" {
				t.Errorf("missing event_id param")
			}
			json.NewEncoder(w).Encode([]models.Market{
				{ID: "m1", EventID: "evt"},
				{ID: "m2", EventID: "evt"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cat := NewHTTPCatalog(srv.URL)

	m, err := cat.GetMarket(context.Background(), "m1")
	if err != nil {
		t.Fatalf("GetMarket: %v", err)
	}
	if m.Question != "Will it happen?" {
		t.Fatalf("unexpected market: %+v", m)
	}

	if _, err := cat.GetMarket(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for 404, got %v", err)
	}

	markets, err := cat.ListMarkets(context.Background(), Filter{EventID: "evt"})
	if err != nil {
		t.Fatalf("ListMarkets: %v", err)
	}
	if len(markets) != 2 {
		t.Fatalf("expected 2 markets, got %d", len(markets))
	}
}
