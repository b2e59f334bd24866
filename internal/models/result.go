package models

import "time"

// Probabilities is the posterior mass over the three outcomes. The three
// components are non-negative and sum to 1 within floating-point tolerance.
type Probabilities struct {
	Yes       float64 `json:"yes"`
	No        float64 `json:"no"`
	Uncertain float64 `json:"uncertain"`
}

// BayesianResult is the output of the evidence-fusion step.
type BayesianResult struct {
	Probabilities Probabilities `json:"probabilities"`
	Confidence    float64       `json:"confidence"`
}

// Verdict is the pipeline's final categorical answer.
type Verdict string

const (
	VerdictYes       Verdict = "YES"
	VerdictNo        Verdict = "NO"
	VerdictUncertain Verdict = "UNCERTAIN"
)

// MarketResearchResult is the full record of one research run. Once
// assembled and persisted it is immutable; a new run appends a new record.
type MarketResearchResult struct {
	ID       string `json:"id"`
	MarketID string `json:"market_id"`
	Question string `json:"question"`

	Verdict       Verdict       `json:"verdict"`
	Confidence    float64       `json:"confidence"`
	Probabilities Probabilities `json:"probabilities"`

	Sources  []GradedSource   `json:"sources"`
	Analysis AnalysisResult   `json:"analysis"`
	Bayesian BayesianResult   `json:"bayesian"`
	Strategy ResearchStrategy `json:"strategy"`

	CompletedAt time.Time `json:"completed_at"`
}
