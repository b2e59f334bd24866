package research

import "github.com/augurlabs/AugurGo/internal/models"

// VerdictThreshold is the fixed policy constant for a categorical call.
// Strictly greater-than: the boundary itself resolves to UNCERTAIN.
const VerdictThreshold = 0.65

// ResolveVerdict maps a posterior probability triple to the final verdict.
// Pure, total and deterministic.
func ResolveVerdict(p models.Probabilities) models.Verdict {
	switch {
	case p.Yes > VerdictThreshold:
		return models.VerdictYes
	case p.No > VerdictThreshold:
		return models.VerdictNo
	default:
		return models.VerdictUncertain
	}
}
