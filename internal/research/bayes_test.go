package research

import (
	"math"
	"testing"

	"github.com/augurlabs/AugurGo/internal/models"
)

func pureAffirm(url string, grade models.Grade) models.GradedSource {
	return models.GradedSource{
		RawSource: models.RawSource{URL: url, Title: "Confirmed: will exceed", Snippet: "Approved."},
		Grade:     grade,
	}
}

func pureDeny(url string, grade models.Grade) models.GradedSource {
	return models.GradedSource{
		RawSource: models.RawSource{URL: url, Title: "Rejected: delayed", Snippet: "Denied."},
		Grade:     grade,
	}
}

func assertValidDistribution(t *testing.T, p models.Probabilities) {
	t.Helper()
	if p.Yes < 0 || p.No < 0 || p.Uncertain < 0 {
		t.Fatalf("negative probability: %+v", p)
	}
	sum := p.Yes + p.No + p.Uncertain
	if math.Abs(sum-1) > 1e-6 {
		t.Fatalf("probabilities sum to %f, want 1", sum)
	}
}

func TestReasonStrongAffirmativeEvidence(t *testing.T) {
	r := NewBayesianReasoner()

	sources := []models.GradedSource{
		pureAffirm("https://a/1", models.GradeA),
		pureAffirm("https://a/2", models.GradeA),
		pureAffirm("https://a/3", models.GradeA),
		pureDeny("https://d/1", models.GradeD),
		pureDeny("https://d/2", models.GradeD),
	}

	result := r.Reason(sources, nil, models.Market{ID: "m"})
	assertValidDistribution(t, result.Probabilities)

	// Three full-weight affirmations against two weakest denials:
	// 8 : 1.44 : 1 before normalization.
	if result.Probabilities.Yes <= VerdictThreshold {
		t.Fatalf("expected p_yes above threshold, got %f", result.Probabilities.Yes)
	}
	if got := ResolveVerdict(result.Probabilities); got != models.VerdictYes {
		t.Fatalf("expected YES, got %s", got)
	}
	if result.Probabilities.Yes <= result.Probabilities.No {
		t.Fatalf("yes mass must dominate: %+v", result.Probabilities)
	}
}

func TestReasonHigherGradesMoveMore(t *testing.T) {
	r := NewBayesianReasoner()
	m := models.Market{ID: "m"}

	strong := r.Reason([]models.GradedSource{pureAffirm("https://a/1", models.GradeA)}, nil, m)
	weak := r.Reason([]models.GradedSource{pureAffirm("https://a/1", models.GradeD)}, nil, m)

	if strong.Probabilities.Yes <= weak.Probabilities.Yes {
		t.Fatalf("A-grade evidence must move the posterior more than D-grade: %f vs %f",
			strong.Probabilities.Yes, weak.Probabilities.Yes)
	}
}

func TestReasonSynthesisShiftsPosterior(t *testing.T) {
	r := NewBayesianReasoner()
	m := models.Market{ID: "m"}
	sources := []models.GradedSource{
		pureAffirm("https://a/1", models.GradeB),
		pureDeny("https://d/1", models.GradeB),
	}

	without := r.Reason(sources, nil, m)
	with := r.Reason(sources, &models.AnalysisResult{Stance: models.StanceAffirm, Agreement: 0.8}, m)

	assertValidDistribution(t, with.Probabilities)
	if with.Probabilities.Yes <= without.Probabilities.Yes {
		t.Fatalf("affirm synthesis must raise p_yes: %f vs %f",
			with.Probabilities.Yes, without.Probabilities.Yes)
	}
}

func TestReasonEmptyEvidence(t *testing.T) {
	r := NewBayesianReasoner()

	result := r.Reason(nil, nil, models.Market{ID: "m"})
	assertValidDistribution(t, result.Probabilities)

	if math.Abs(result.Probabilities.Yes-1.0/3) > 1e-9 {
		t.Fatalf("no evidence must leave the uniform prior, got %+v", result.Probabilities)
	}
	if result.Confidence != 0.1 {
		t.Fatalf("expected floor confidence 0.1, got %f", result.Confidence)
	}
}

func TestReasonConfidenceInRange(t *testing.T) {
	r := NewBayesianReasoner()
	m := models.Market{ID: "m"}

	cases := [][]models.GradedSource{
		nil,
		{pureAffirm("https://a/1", models.GradeA)},
		{pureAffirm("https://a/1", models.GradeA), pureDeny("https://d/1", models.GradeA)},
		{
			pureAffirm("https://a/1", models.GradeA), pureAffirm("https://a/2", models.GradeA),
			pureAffirm("https://a/3", models.GradeB), pureAffirm("https://a/4", models.GradeB),
			pureAffirm("https://a/5", models.GradeC), pureAffirm("https://a/6", models.GradeC),
			pureAffirm("https://a/7", models.GradeD),
		},
	}

	for i, sources := range cases {
		result := r.Reason(sources, nil, m)
		if result.Confidence < 0 || result.Confidence > 1 {
			t.Errorf("case %d: confidence %f out of [0,1]", i, result.Confidence)
		}
		assertValidDistribution(t, result.Probabilities)
	}
}

func TestReasonContradictoryEvidenceLowersConfidence(t *testing.T) {
	r := NewBayesianReasoner()
	m := models.Market{ID: "m"}

	agreeing := r.Reason([]models.GradedSource{
		pureAffirm("https://a/1", models.GradeA),
		pureAffirm("https://a/2", models.GradeA),
		pureAffirm("https://a/3", models.GradeA),
	}, nil, m)
	split := r.Reason([]models.GradedSource{
		pureAffirm("https://a/1", models.GradeA),
		pureDeny("https://d/1", models.GradeA),
		pureAffirm("https://a/2", models.GradeA),
		pureDeny("https://d/2", models.GradeA),
	}, nil, m)

	if split.Confidence >= agreeing.Confidence {
		t.Fatalf("contradictory evidence should lower confidence: %f vs %f",
			split.Confidence, agreeing.Confidence)
	}
}
