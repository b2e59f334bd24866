package gather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/augurlabs/AugurGo/config"
	"github.com/augurlabs/AugurGo/internal/models"
)

const newsPage = `
<html><body>
<article>
  <a href="./read/abc?url=https%3A%2F%2Fwww.reuters.com%2Fmarkets%2Fbitcoin-rally">link</a>
  <h3>Bitcoin rallies past key level</h3>
  <div data-n-tid="1">Reuters</div>
  <time>2 hours ago</time>
  <span>Prices climbed as ETF inflows continued.</span>
</article>
<article>
  <a href="./read/def?url=https%3A%2F%2Fwww.coindesk.com%2Fbtc-etf">link</a>
  <h4>ETF inflows hit record</h4>
  <div data-n-tid="1">CoinDesk</div>
  <time>1 day ago</time>
  <span>Funds saw their largest weekly inflow.</span>
</article>
<article>
  <a href="./read/abc?url=https%3A%2F%2Fwww.reuters.com%2Fmarkets%2Fbitcoin-rally">dup</a>
  <h3>Bitcoin rallies past key level</h3>
  <div data-n-tid="1">Reuters</div>
  <time>2 hours ago</time>
  <span>Duplicate listing of the same story.</span>
</article>
<article>
  <a href="./no-title">no title</a>
  <span>Should be skipped.</span>
</article>
</body></html>`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfigWithRoot(t.TempDir())
	cfg.CacheEnabled = false
	return cfg
}

func TestNewsGathererParsesAndDedupes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "" {
			t.Errorf("missing q param in %s", r.URL)
		}
		fmt.Fprintf(w, "%s", newsPage)
	}))
	defer srv.Close()

	ng := NewNewsGatherer(testConfig(t), WithSearchBaseURL(srv.URL))

	strat := models.ResearchStrategy{Queries: []string{"bitcoin price"}}
	sources, err := ng.Gather(context.Background(), models.Market{ID: "m1"}, strat)
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	if len(sources) != 2 {
		t.Fatalf("expected 2 deduplicated sources, got %d", len(sources))
	}
	if sources[0].URL != "https://www.reuters.com/markets/bitcoin-rally" {
		t.Errorf("unexpected first URL: %s", sources[0].URL)
	}
	if sources[0].Domain != "reuters.com" {
		t.Errorf("expected domain reuters.com, got %s", sources[0].Domain)
	}
	if sources[0].Title != "Bitcoin rallies past key level" {
		t.Errorf("unexpected title: %s", sources[0].Title)
	}
	if sources[1].Domain != "coindesk.com" {
		t.Errorf("expected domain coindesk.com, got %s", sources[1].Domain)
	}

	age := time.Since(sources[0].PublishedAt)
	if age < 90*time.Minute || age > 150*time.Minute {
		t.Errorf("expected ~2h old publish time, got %v", age)
	}
}

func TestNewsGathererEmptyPageIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body></body></html>")
	}))
	defer srv.Close()

	ng := NewNewsGatherer(testConfig(t), WithSearchBaseURL(srv.URL))

	sources, err := ng.Gather(context.Background(), models.Market{ID: "m1"},
		models.ResearchStrategy{Queries: []string{"anything"}})
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(sources) != 0 {
		t.Fatalf("expected no sources, got %d", len(sources))
	}
}

func TestNewsGathererHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%s", newsPage)
	}))
	defer srv.Close()

	ng := NewNewsGatherer(testConfig(t), WithSearchBaseURL(srv.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ng.Gather(ctx, models.Market{ID: "m1"},
		models.ResearchStrategy{Queries: []string{"anything"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCacheManagerRoundTrip(t *testing.T) {
	cm := NewCacheManager(t.TempDir(), time.Hour, true)

	in := []models.RawSource{{URL: "https://example.com/a", Title: "A"}}
	if err := cm.Set("news", "search", "q", in); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out []models.RawSource
	if !cm.Get("news", "search", "q", &out) {
		t.Fatalf("expected cache hit")
	}
	if len(out) != 1 || out[0].URL != in[0].URL {
		t.Fatalf("cache returned wrong data: %+v", out)
	}

	var miss []models.RawSource
	if cm.Get("news", "search", "other-q", &miss) {
		t.Fatalf("expected cache miss for different params")
	}
}

func TestCacheManagerDisabled(t *testing.T) {
	cm := NewCacheManager(t.TempDir(), time.Hour, false)
	if err := cm.Set("news", "search", "q", "data"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	var out string
	if cm.Get("news", "search", "q", &out) {
		t.Fatalf("disabled cache must never hit")
	}
}

func TestWithRetryStopsAfterSuccess(t *testing.T) {
	calls := 0
	err := WithRetry(&RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}, func() error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithRetry: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestWithRetryExhaustion(t *testing.T) {
	sentinel := errors.New("down")
	err := WithRetry(&RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}, func() error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped sentinel, got %v", err)
	}
}
