package research

import (
	"math"

	"github.com/augurlabs/AugurGo/internal/models"
)

// BayesianReasoner fuses credibility-weighted evidence and the synthesis
// conclusion into a posterior probability mass over {yes, no, uncertain}.
// Synchronous and deterministic given its inputs.
type BayesianReasoner struct {
	// synthesisWeight scales the single update contributed by the
	// analyzer's synthesis stance, relative to a full-weight source.
	synthesisWeight float64
}

func NewBayesianReasoner() *BayesianReasoner {
	return &BayesianReasoner{synthesisWeight: 0.5}
}

func (r *BayesianReasoner) Reason(sources []models.GradedSource, analysis *models.AnalysisResult, m models.Market) models.BayesianResult {
	// Uninformative prior.
	yes, no, uncertain := 1.0/3, 1.0/3, 1.0/3

	// One multiplicative update per independent piece of evidence: the
	// source's stance, scaled by its grade weight and stance strength.
	for _, src := range sources {
		stance, strength := models.ClassifyStance(src.Title + " " + src.Snippet)
		w := src.Grade.Weight() * strength
		switch stance {
		case models.StanceAffirm:
			yes *= 1 + w
		case models.StanceDeny:
			no *= 1 + w
		case models.StanceNeutral:
			uncertain *= 1 + 0.3*src.Grade.Weight()
		}
		yes, no, uncertain = normalize(yes, no, uncertain)
	}

	// The synthesis conclusion counts as one more weighted update.
	if analysis != nil {
		w := r.synthesisWeight * math.Abs(analysis.Agreement)
		switch analysis.Stance {
		case models.StanceAffirm:
			yes *= 1 + w
		case models.StanceDeny:
			no *= 1 + w
		case models.StanceNeutral:
			uncertain *= 1 + 0.3*r.synthesisWeight
		}
	}
	yes, no, uncertain = normalize(yes, no, uncertain)

	probs := models.Probabilities{Yes: yes, No: no, Uncertain: uncertain}
	return models.BayesianResult{
		Probabilities: probs,
		Confidence:    r.confidence(probs, sources),
	}
}

// confidence blends posterior concentration with the volume and grade mix
// of the evidence: high when many A/B sources agree, low when evidence is
// sparse or contradictory.
func (r *BayesianReasoner) confidence(p models.Probabilities, sources []models.GradedSource) float64 {
	if len(sources) == 0 {
		return 0.1
	}

	// Distance from the uniform prior, normalized to [0, 1].
	const third = 1.0 / 3
	dist := math.Sqrt((p.Yes-third)*(p.Yes-third) +
		(p.No-third)*(p.No-third) +
		(p.Uncertain-third)*(p.Uncertain-third))
	concentration := dist / math.Sqrt(2.0/3)

	strong := 0
	for _, src := range sources {
		if src.Grade == models.GradeA || src.Grade == models.GradeB {
			strong++
		}
	}
	gradeMix := float64(strong) / float64(len(sources))

	volume := float64(len(sources)) / 6.0
	if volume > 1 {
		volume = 1
	}

	c := 0.5*concentration + 0.3*gradeMix + 0.2*volume
	return clamp01(c)
}

// normalize renormalizes the three masses so they sum to 1 and are never
// negative. Mandatory before returning.
func normalize(yes, no, uncertain float64) (float64, float64, float64) {
	yes = math.Max(yes, 0)
	no = math.Max(no, 0)
	uncertain = math.Max(uncertain, 0)
	sum := yes + no + uncertain
	if sum == 0 {
		return 1.0 / 3, 1.0 / 3, 1.0 / 3
	}
	return yes / sum, no / sum, uncertain / sum
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
