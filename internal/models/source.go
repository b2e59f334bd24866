package models

import (
	"sort"
	"time"
)

// Grade is the credibility tier assigned to a single evidence source.
// A is the most credible, D the least.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// Rank returns the sort position of the grade: A sorts first.
func (g Grade) Rank() int {
	switch g {
	case GradeA:
		return 0
	case GradeB:
		return 1
	case GradeC:
		return 2
	case GradeD:
		return 3
	}
	return 4
}

// Weight returns the evidence weight a source of this grade contributes
// during Bayesian fusion.
func (g Grade) Weight() float64 {
	switch g {
	case GradeA:
		return 1.0
	case GradeB:
		return 0.7
	case GradeC:
		return 0.4
	case GradeD:
		return 0.2
	}
	return 0.2
}

// RawSource is an evidence item returned by the gatherer, before grading.
type RawSource struct {
	URL         string    `json:"url"`
	Domain      string    `json:"domain"`
	Title       string    `json:"title"`
	Snippet     string    `json:"snippet"`
	Author      string    `json:"author,omitempty"`
	PublishedAt time.Time `json:"published_at,omitempty"`
}

// GradedSource is a RawSource with its credibility grade attached. The
// grade is assigned once and never mutated afterwards.
type GradedSource struct {
	RawSource
	Grade     Grade  `json:"grade"`
	Rationale string `json:"rationale,omitempty"`
}

// SortByGrade orders sources ascending by grade rank (A first). The sort
// is stable so equally graded sources keep their gathering order.
func SortByGrade(sources []GradedSource) {
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Grade.Rank() < sources[j].Grade.Rank()
	})
}

// DedupeByURL drops sources whose URL was already seen, keeping the first
// occurrence.
func DedupeByURL(sources []RawSource) []RawSource {
	seen := make(map[string]bool, len(sources))
	out := make([]RawSource, 0, len(sources))
	for _, s := range sources {
		if s.URL != "" && seen[s.URL] {
			continue
		}
		seen[s.URL] = true
		out = append(out, s)
	}
	return out
}
