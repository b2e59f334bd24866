package research

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/augurlabs/AugurGo/internal/models"
)

// Planner derives a research strategy from a market snapshot and its event
// context.
type Planner interface {
	Plan(m models.Market, event []models.Market) models.ResearchStrategy
}

// StrategyPlanner extracts entities, dates and numeric thresholds from the
// market question and turns them into an ordered query list. Deterministic
// given the same market snapshot. When nothing can be extracted it falls
// back to a generic strategy so the pipeline never stalls with zero
// queries.
type StrategyPlanner struct {
	maxQueries int
}

func NewStrategyPlanner() *StrategyPlanner {
	return &StrategyPlanner{maxQueries: 6}
}

var (
	entityPattern = regexp.MustCompile(`\b[A-Z][a-zA-Z0-9&.-]*(?:\s+[A-Z][a-zA-Z0-9&.-]*)*\b`)
	numberPattern = regexp.MustCompile(`\$?\d[\d,]*(?:\.\d+)?%?`)
	datePattern   = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
	yearPattern   = regexp.MustCompile(`\b(20\d{2})\b`)
)

// Question openers that the entity regex would otherwise pick up as
// capitalized spans.
var questionOpeners = map[string]bool{
	"Will": true, "Does": true, "Is": true, "Are": true, "Can": true,
	"Who": true, "What": true, "When": true, "How": true, "By": true,
}

// Asset names recognized for quote evidence, mapped to quote symbols.
// Ordered so detection is deterministic when several names appear.
var assetSymbols = []struct {
	name   string
	symbol string
}{
	{"bitcoin", "BTC-USD"},
	{"btc", "BTC-USD"},
	{"ethereum", "ETH-USD"},
	{"eth", "ETH-USD"},
	{"solana", "SOL-USD"},
	{"dogecoin", "DOGE-USD"},
	{"s&p 500", "^GSPC"},
	{"nasdaq", "^IXIC"},
	{"gold", "GC=F"},
}

func (p *StrategyPlanner) Plan(m models.Market, event []models.Market) models.ResearchStrategy {
	strat := models.ResearchStrategy{MarketID: m.ID}

	question := strings.TrimSpace(m.Question)
	strat.Entities = extractEntities(question)
	// Dates are stripped first so their day/year digits are not mistaken
	// for numeric thresholds.
	strat.Thresholds = extractThresholds(datePattern.ReplaceAllString(question, ""))
	strat.Deadline = extractDeadline(question, m.ResolutionDate)
	strat.AssetSymbol = detectAssetSymbol(question)

	if len(strat.Entities) == 0 {
		return p.fallback(m, strat)
	}

	primary := strat.Entities[0]
	strat.Queries = append(strat.Queries, question)
	strat.Queries = append(strat.Queries, primary+" latest news")

	if len(strat.Thresholds) > 0 {
		strat.Queries = append(strat.Queries,
			fmt.Sprintf("%s %s forecast", primary, formatThreshold(strat.Thresholds[0])))
		strat.FocusAreas = append(strat.FocusAreas, "price targets and forecasts")
	}
	if !strat.Deadline.IsZero() {
		strat.Queries = append(strat.Queries,
			fmt.Sprintf("%s outlook %d", primary, strat.Deadline.Year()))
		strat.FocusAreas = append(strat.FocusAreas, "timeline feasibility")
	}
	for _, e := range strat.Entities[1:] {
		strat.Queries = append(strat.Queries, primary+" "+e)
	}

	// Broaden with sibling markets from the same event.
	for _, sibling := range event {
		if sibling.ID == m.ID || sibling.Question == "" {
			continue
		}
		strat.Queries = append(strat.Queries, sibling.Question)
		strat.FocusAreas = append(strat.FocusAreas, "related market: "+sibling.Question)
	}
	if m.EventTitle != "" {
		strat.FocusAreas = append(strat.FocusAreas, "event: "+m.EventTitle)
	}

	strat.Queries = dedupeStrings(strat.Queries)
	if len(strat.Queries) > p.maxQueries {
		strat.Queries = strat.Queries[:p.maxQueries]
	}
	return strat
}

// fallback builds a generic strategy from the raw question text.
func (p *StrategyPlanner) fallback(m models.Market, strat models.ResearchStrategy) models.ResearchStrategy {
	question := strings.TrimSpace(m.Question)
	if question == "" {
		question = m.Slug
	}
	if question == "" {
		question = "prediction market " + m.ID
	}
	strat.Fallback = true
	strat.Queries = dedupeStrings([]string{
		question,
		question + " news",
	})
	strat.FocusAreas = append(strat.FocusAreas, "general coverage")
	return strat
}

func extractEntities(question string) []string {
	var entities []string
	for _, span := range entityPattern.FindAllString(question, -1) {
		span = strings.TrimSpace(span)
		// Strip a leading question opener from the span.
		words := strings.Fields(span)
		for len(words) > 0 && questionOpeners[words[0]] {
			words = words[1:]
		}
		if len(words) == 0 {
			continue
		}
		entity := strings.Join(words, " ")
		if len(entity) < 2 {
			continue
		}
		entities = append(entities, entity)
	}
	return dedupeStrings(entities)
}

func extractThresholds(question string) []float64 {
	var thresholds []float64
	for _, raw := range numberPattern.FindAllString(question, -1) {
		cleaned := strings.Trim(strings.ReplaceAll(raw, ",", ""), "$%")
		v, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			continue
		}
		// Bare years are deadlines, not thresholds.
		if v >= 2000 && v <= 2100 && !strings.ContainsAny(raw, "$%.,") {
			continue
		}
		thresholds = append(thresholds, v)
	}
	return thresholds
}

func extractDeadline(question string, resolution time.Time) time.Time {
	if m := datePattern.FindStringSubmatch(question); m != nil {
		t, err := time.Parse("January 2 2006", fmt.Sprintf("%s %s %s", m[1], m[2], m[3]))
		if err == nil {
			return t
		}
	}
	if m := yearPattern.FindStringSubmatch(question); m != nil {
		year, _ := strconv.Atoi(m[1])
		return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	return resolution
}

func detectAssetSymbol(question string) string {
	q := strings.ToLower(question)
	for _, a := range assetSymbols {
		if strings.Contains(q, a.name) {
			return a.symbol
		}
	}
	return ""
}

func formatThreshold(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}
