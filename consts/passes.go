package consts

// Analysis pass node names used in the eino graph.
const (
	AdvocateAnalyst = "advocate_analyst"
	SkepticAnalyst  = "skeptic_analyst"
	SynthesisJudge  = "synthesis_judge"
)

// AnalysisGraphName identifies the compiled analysis graph in debug tooling.
const AnalysisGraphName = "AugurGo-ResearchAnalysis"
