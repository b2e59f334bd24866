package models

// Stance is the direction an analysis pass or evidence source argues for,
// relative to the market question resolving YES.
type Stance string

const (
	StanceAffirm  Stance = "affirm"
	StanceDeny    Stance = "deny"
	StanceNeutral Stance = "neutral"
)

// PassOutput is the intermediate output of a single analysis pass, kept
// for audit and transparency. Downstream stages never depend on it.
type PassOutput struct {
	Pass       string   `json:"pass"`
	Stance     Stance   `json:"stance"`
	Conclusion string   `json:"conclusion"`
	Score      float64  `json:"score"`
	SourceURLs []string `json:"source_urls,omitempty"`
}

// AnalysisResult is the structured output of the multi-agent analyzer.
// Conclusion and Stance come from the synthesis pass and are authoritative;
// Intermediate carries the per-pass outputs when requested.
type AnalysisResult struct {
	Conclusion string `json:"conclusion"`
	Stance     Stance `json:"stance"`

	// Agreement is the net evidence agreement in [-1, 1]: positive when
	// the advocate case outweighs the skeptic case.
	Agreement float64 `json:"agreement"`

	Intermediate []PassOutput `json:"intermediate,omitempty"`
}

// AnalysisState flows through the analysis graph. Each pass node reads the
// market and graded sources and appends its own PassOutput; the synthesis
// node fills Result.
type AnalysisState struct {
	Market  Market
	Sources []GradedSource
	Passes  []PassOutput
	Result  *AnalysisResult
}
