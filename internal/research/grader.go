package research

import (
	"fmt"
	"strings"
	"time"

	"github.com/augurlabs/AugurGo/internal/models"
)

// Grader assigns a credibility grade to a raw source. Implementations must
// be deterministic and total: every source receives exactly one grade.
type Grader interface {
	Grade(src models.RawSource, m models.Market) models.Grade
}

// SourceGrader grades evidence on three axes: domain reputation, recency
// relative to the market's resolution window, and specificity of the
// snippet to the market's question. Pure function of its inputs plus the
// source's age at grading time.
type SourceGrader struct{}

func NewSourceGrader() *SourceGrader { return &SourceGrader{} }

// Reputation tiers for known publishers. Unknown domains score the
// neutral middle; .gov and .edu are treated as tier one.
var domainTiers = map[string]int{
	"reuters.com":        3,
	"apnews.com":         3,
	"bloomberg.com":      3,
	"wsj.com":            3,
	"ft.com":             3,
	"economist.com":      3,
	"bbc.com":            3,
	"bbc.co.uk":          3,
	"nytimes.com":        3,
	"washingtonpost.com": 3,
	"nature.com":         3,

	"cnbc.com":          2,
	"forbes.com":        2,
	"theguardian.com":   2,
	"coindesk.com":      2,
	"cointelegraph.com": 2,
	"politico.com":      2,
	"axios.com":         2,
	"finance.yahoo.com": 2,
	"fortune.com":       2,

	"businessinsider.com": 1,
	"marketwatch.com":     1,
	"seekingalpha.com":    1,
	"thestreet.com":       1,
	"benzinga.com":        1,

	"medium.com":    0,
	"substack.com":  0,
	"reddit.com":    0,
	"blogspot.com":  0,
	"twitter.com":   0,
	"x.com":         0,
	"wordpress.com": 0,
}

func (g *SourceGrader) Grade(src models.RawSource, m models.Market) models.Grade {
	score := g.domainScore(src.Domain)
	score += g.recencyScore(src.PublishedAt, m)
	score += g.specificityScore(src, m)

	switch {
	case score >= 6:
		return models.GradeA
	case score >= 4:
		return models.GradeB
	case score >= 2:
		return models.GradeC
	default:
		return models.GradeD
	}
}

// GradeWithRationale grades a source and records why, for the audit trail.
func (g *SourceGrader) GradeWithRationale(src models.RawSource, m models.Market) models.GradedSource {
	grade := g.Grade(src, m)
	rationale := fmt.Sprintf("domain=%d recency=%d specificity=%d",
		g.domainScore(src.Domain), g.recencyScore(src.PublishedAt, m), g.specificityScore(src, m))
	return models.GradedSource{RawSource: src, Grade: grade, Rationale: rationale}
}

func (g *SourceGrader) domainScore(domain string) int {
	domain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(domain), "www."))
	if tier, ok := domainTiers[domain]; ok {
		return tier
	}
	if strings.HasSuffix(domain, ".gov") || strings.HasSuffix(domain, ".edu") {
		return 3
	}
	return 1
}

// baseRecencyWindow is the relevance horizon for markets without a known
// resolution date. At this window the buckets are 7, 30 and 180 days.
const baseRecencyWindow = 180 * 24 * time.Hour

// recencyScore buckets the source's age against the market's resolution
// window. A market resolving far out stretches the buckets so older
// coverage still counts; a market about to resolve never tightens them
// below the base window.
func (g *SourceGrader) recencyScore(published time.Time, m models.Market) int {
	if published.IsZero() {
		return -1
	}

	window := baseRecencyWindow
	if !m.ResolutionDate.IsZero() {
		if remaining := time.Until(m.ResolutionDate); remaining > window {
			window = remaining
		}
	}

	age := time.Since(published)
	switch {
	case age <= window*7/180:
		return 2
	case age <= window/6:
		return 1
	case age <= window:
		return 0
	default:
		return -1
	}
}

func (g *SourceGrader) specificityScore(src models.RawSource, m models.Market) int {
	terms := questionTerms(m.Question)
	if len(terms) == 0 {
		return 0
	}
	text := strings.ToLower(src.Title + " " + src.Snippet)
	matches := 0
	for term := range terms {
		if strings.Contains(text, term) {
			matches++
		}
	}
	switch {
	case matches >= 4:
		return 2
	case matches >= 2:
		return 1
	case matches == 1:
		return 0
	default:
		return -1
	}
}

var stopwords = map[string]bool{
	"will": true, "the": true, "and": true, "this": true, "that": true,
	"with": true, "from": true, "have": true, "been": true, "before": true,
	"after": true, "does": true, "their": true, "there": true, "when": true,
	"what": true, "than": true, "more": true, "reach": true,
}

func questionTerms(question string) map[string]bool {
	terms := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(question)) {
		w = strings.Trim(w, ".,?!\"'()$%")
		if len(w) <= 3 || stopwords[w] {
			continue
		}
		terms[w] = true
	}
	return terms
}
