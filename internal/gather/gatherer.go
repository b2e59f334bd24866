package gather

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/augurlabs/AugurGo/config"
	"github.com/augurlabs/AugurGo/internal/models"
)

// Gatherer collects raw evidence for a market research strategy. A nil
// error with an empty slice means the search ran but found nothing;
// callers treat that differently from a failed run.
type Gatherer interface {
	Gather(ctx context.Context, market models.Market, strat models.ResearchStrategy) ([]models.RawSource, error)
}

// NewsGatherer scrapes Google News search results for each strategy
// query and merges them into one deduplicated evidence set.
type NewsGatherer struct {
	client        *resty.Client
	cache         *CacheManager
	quotes        QuoteProvider
	searchBaseURL string
	maxPerQuery   int
}

type NewsOption func(*NewsGatherer)

// WithSearchBaseURL overrides the news search endpoint, mainly for tests.
func WithSearchBaseURL(baseURL string) NewsOption {
	return func(ng *NewsGatherer) {
		if baseURL != "" {
			ng.searchBaseURL = baseURL
		}
	}
}

// WithQuoteProvider attaches a price feed for strategies that name an
// asset symbol.
func WithQuoteProvider(qp QuoteProvider) NewsOption {
	return func(ng *NewsGatherer) {
		ng.quotes = qp
	}
}

func NewNewsGatherer(cfg *config.Config, opts ...NewsOption) *NewsGatherer {
	cacheDir := filepath.Join(cfg.DataCacheDir, "news_search")
	cache := NewCacheManager(cacheDir, 2*time.Hour, cfg.CacheEnabled) // 2 hour cache for news

	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; AugurGo/1.0)")

	ng := &NewsGatherer{
		client:        client,
		cache:         cache,
		searchBaseURL: "https://news.google.com/search",
		maxPerQuery:   cfg.MaxSourcesPerQuery,
	}
	if ng.maxPerQuery <= 0 {
		ng.maxPerQuery = 8
	}
	for _, opt := range opts {
		opt(ng)
	}
	return ng
}

func (ng *NewsGatherer) Gather(ctx context.Context, market models.Market, strat models.ResearchStrategy) ([]models.RawSource, error) {
	var sources []models.RawSource
	var lastErr error

	for _, query := range strat.Queries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		found, err := ng.search(ctx, query)
		if err != nil {
			lastErr = err
			continue
		}
		sources = append(sources, found...)
	}

	// A quote feed failure degrades to news-only evidence.
	if ng.quotes != nil && strat.AssetSymbol != "" {
		snap, err := ng.quotes.Quote(ctx, strat.AssetSymbol)
		if err != nil {
			log.Printf("quote lookup for %s failed: %v", strat.AssetSymbol, err)
		} else {
			sources = append(sources, quoteSource(snap, strat))
		}
	}

	if len(sources) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return models.DedupeByURL(sources), nil
}

func (ng *NewsGatherer) search(ctx context.Context, query string) ([]models.RawSource, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}

	var cached []models.RawSource
	if ng.cache.Get("news", "search", query, &cached) {
		return cached, nil
	}

	searchURL := ng.buildSearchURL(query)

	var result []models.RawSource
	err := WithRetry(&RetryConfig{MaxRetries: 2, BaseDelay: 500 * time.Millisecond, MaxDelay: 5 * time.Second, Multiplier: 2.0}, func() error {
		if err := ctx.Err(); err != nil {
			return err
		}

		resp, err := ng.client.R().SetContext(ctx).Get(searchURL)
		if err != nil {
			return fmt.Errorf("failed to fetch news search: %w", err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("HTTP error %d when fetching news search", resp.StatusCode())
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
		if err != nil {
			return fmt.Errorf("failed to parse HTML: %w", err)
		}

		result = ng.parseNewsHTML(doc)
		if len(result) > ng.maxPerQuery {
			result = result[:ng.maxPerQuery]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ng.cache.Set("news", "search", query, result)
	return result, nil
}

func (ng *NewsGatherer) buildSearchURL(query string) string {
	return fmt.Sprintf("%s?q=%s&hl=en&gl=US&ceid=US:en", ng.searchBaseURL, url.QueryEscape(query))
}

// parseNewsHTML extracts sources from a Google News results page. The
// markup shifts over time, so selectors stay loose.
func (ng *NewsGatherer) parseNewsHTML(doc *goquery.Document) []models.RawSource {
	var sources []models.RawSource

	doc.Find("article").Each(func(i int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Find("h3").Text())
		if title == "" {
			title = strings.TrimSpace(s.Find("h4").Text())
		}
		if title == "" {
			return
		}

		link := s.Find("a").First()
		href, exists := link.Attr("href")
		if !exists {
			return
		}
		articleURL := ng.cleanNewsURL(href)

		publisher := strings.TrimSpace(s.Find("div[data-n-tid]").Text())
		timeText := strings.TrimSpace(s.Find("time").Text())
		snippet := strings.TrimSpace(s.Find("span").Last().Text())

		sources = append(sources, models.RawSource{
			URL:         articleURL,
			Domain:      domainOf(articleURL, publisher),
			Title:       title,
			Snippet:     snippet,
			Author:      publisher,
			PublishedAt: ng.parseRelativeTime(timeText),
		})
	})

	return sources
}

// cleanNewsURL removes the Google News redirect wrapper.
func (ng *NewsGatherer) cleanNewsURL(googleURL string) string {
	if strings.Contains(googleURL, "url=") {
		parts := strings.Split(googleURL, "url=")
		if len(parts) > 1 {
			decoded, err := url.QueryUnescape(parts[1])
			if err == nil {
				return decoded
			}
		}
	}

	if strings.HasPrefix(googleURL, "./") {
		return "https://news.google.com" + googleURL[1:]
	}
	if strings.HasPrefix(googleURL, "/") {
		return "https://news.google.com" + googleURL
	}
	return googleURL
}

func domainOf(rawURL, publisher string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		return strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	}
	return strings.ToLower(strings.ReplaceAll(publisher, " ", ""))
}

var (
	minutesAgoRe = regexp.MustCompile(`(\d+)\s*minutes?\s*ago`)
	hoursAgoRe   = regexp.MustCompile(`(\d+)\s*hours?\s*ago`)
	daysAgoRe    = regexp.MustCompile(`(\d+)\s*days?\s*ago`)
)

// parseRelativeTime converts relative time strings to actual time.
func (ng *NewsGatherer) parseRelativeTime(timeText string) time.Time {
	now := time.Now()
	timeText = strings.ToLower(strings.TrimSpace(timeText))

	switch timeText {
	case "", "just now":
		return now
	case "yesterday":
		return now.Add(-24 * time.Hour)
	}

	if matches := minutesAgoRe.FindStringSubmatch(timeText); len(matches) > 1 {
		if minutes := parseNumber(matches[1]); minutes > 0 {
			return now.Add(-time.Duration(minutes) * time.Minute)
		}
	}
	if matches := hoursAgoRe.FindStringSubmatch(timeText); len(matches) > 1 {
		if hours := parseNumber(matches[1]); hours > 0 {
			return now.Add(-time.Duration(hours) * time.Hour)
		}
	}
	if matches := daysAgoRe.FindStringSubmatch(timeText); len(matches) > 1 {
		if days := parseNumber(matches[1]); days > 0 {
			return now.Add(-time.Duration(days) * 24 * time.Hour)
		}
	}

	if t, err := time.Parse("2006-01-02", timeText); err == nil {
		return t
	}

	// Unparseable stamps are assumed recent.
	return now.Add(-1 * time.Hour)
}

func parseNumber(s string) int {
	var result int
	fmt.Sscanf(s, "%d", &result)
	return result
}
