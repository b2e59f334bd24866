package models

import "regexp"

// Keyword patterns for stance classification. Shared by the analysis
// passes and the Bayesian reasoner so both read evidence the same way.
var (
	affirmPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(will|likely|expected|expect|confirmed|confirm|approved|approve)\b`),
		regexp.MustCompile(`(?i)\b(on track|record high|reach|exceed|surpass|surge|rally|pass|win)\b`),
		regexp.MustCompile(`(?i)\b(momentum|breakthrough|ahead of schedule|strong demand)\b`),
	}
	denyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(unlikely|reject|rejected|denied|deny|fall short|miss|missed)\b`),
		regexp.MustCompile(`(?i)\b(delay|delayed|decline|fail|failed|drop|plunge|ban|blocked)\b`),
		regexp.MustCompile(`(?i)\b(doubt|skeptical|headwinds|collapse|setback)\b`),
	}
	neutralPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(uncertain|unclear|mixed|debate|too early|undecided|split)\b`),
	}
)

// ClassifyStance scores a piece of evidence text against the affirm, deny
// and neutral keyword sets and returns the dominant stance with a strength
// in [0, 1]. Deterministic and total: text with no matches is neutral with
// strength 0.
func ClassifyStance(text string) (Stance, float64) {
	affirm := countMatches(affirmPatterns, text)
	deny := countMatches(denyPatterns, text)
	neutral := countMatches(neutralPatterns, text)

	if affirm == 0 && deny == 0 {
		if neutral > 0 {
			return StanceNeutral, 0.3
		}
		return StanceNeutral, 0
	}

	strength := float64(affirm-deny) / float64(affirm+deny)
	if strength < 0 {
		strength = -strength
	}

	switch {
	case affirm > deny:
		return StanceAffirm, strength
	case deny > affirm:
		return StanceDeny, strength
	default:
		return StanceNeutral, 0.3
	}
}

func countMatches(patterns []*regexp.Regexp, text string) int {
	n := 0
	for _, p := range patterns {
		n += len(p.FindAllString(text, -1))
	}
	return n
}
