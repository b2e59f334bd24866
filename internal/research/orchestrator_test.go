package research

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/augurlabs/AugurGo/internal/catalog"
	"github.com/augurlabs/AugurGo/internal/models"
	"github.com/augurlabs/AugurGo/internal/storage/sqlite"
)

type stubGatherer struct {
	fn    func(ctx context.Context, m models.Market, strat models.ResearchStrategy) ([]models.RawSource, error)
	calls int
}

func (s *stubGatherer) Gather(ctx context.Context, m models.Market, strat models.ResearchStrategy) ([]models.RawSource, error) {
	s.calls++
	return s.fn(ctx, m, strat)
}

type stubAnalyzer struct {
	fn    func(ctx context.Context, m models.Market, sources []models.GradedSource) (*models.AnalysisResult, error)
	calls int
}

func (s *stubAnalyzer) Analyze(ctx context.Context, m models.Market, sources []models.GradedSource) (*models.AnalysisResult, error) {
	s.calls++
	if s.fn != nil {
		return s.fn(ctx, m, sources)
	}
	return &models.AnalysisResult{
		Conclusion: "evidence favors resolution",
		Stance:     models.StanceAffirm,
		Agreement:  0.6,
		Intermediate: []models.PassOutput{
			{Pass: "advocate_analyst", Stance: models.StanceAffirm},
			{Pass: "skeptic_analyst", Stance: models.StanceDeny},
			{Pass: "synthesis_judge", Stance: models.StanceAffirm},
		},
	}, nil
}

// gradeByURL grades from a fixed table, defaulting to C.
type gradeByURL map[string]models.Grade

func (g gradeByURL) Grade(src models.RawSource, m models.Market) models.Grade {
	if grade, ok := g[src.URL]; ok {
		return grade
	}
	return models.GradeC
}

func affirmSource(url string) models.RawSource {
	return models.RawSource{
		URL:         url,
		Domain:      "reuters.com",
		Title:       "Confirmed: approval expected, will exceed the target",
		Snippet:     "Strong momentum and record demand.",
		PublishedAt: time.Now().Add(-2 * time.Hour),
	}
}

func denySource(url string) models.RawSource {
	return models.RawSource{
		URL:         url,
		Domain:      "reddit.com",
		Title:       "Doubt grows, delay likely to fail",
		Snippet:     "Setback and decline feared.",
		PublishedAt: time.Now().Add(-2 * time.Hour),
	}
}

func testMarket() models.Market {
	return models.Market{
		ID:             "mkt-1",
		Question:       "Will bitcoin exceed $100,000 by December 31, 2026?",
		EventID:        "evt-1",
		Status:         models.MarketStatusActive,
		ResolutionDate: time.Now().Add(120 * 24 * time.Hour),
	}
}

type orchestratorFixture struct {
	orch     *Orchestrator
	gatherer *stubGatherer
	analyzer *stubAnalyzer
	cache    *Cache
}

func newFixture(t *testing.T, gatherFn func(ctx context.Context, m models.Market, strat models.ResearchStrategy) ([]models.RawSource, error), opts Options) *orchestratorFixture {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cat := catalog.NewStaticCatalog(testMarket())
	gatherer := &stubGatherer{fn: gatherFn}
	analyzer := &stubAnalyzer{}
	cache := NewCache(store)

	orch := NewOrchestrator(cat, NewStrategyPlanner(), gatherer, NewSourceGrader(), analyzer, NewBayesianReasoner(), cache, opts)
	return &orchestratorFixture{orch: orch, gatherer: gatherer, analyzer: analyzer, cache: cache}
}

func defaultGatherFn(ctx context.Context, m models.Market, strat models.ResearchStrategy) ([]models.RawSource, error) {
	return []models.RawSource{
		affirmSource("https://reuters.com/a"),
		affirmSource("https://reuters.com/b"),
		affirmSource("https://reuters.com/c"),
		denySource("https://reddit.com/r/1"),
		denySource("https://reddit.com/r/2"),
	}, nil
}

func TestResearchMalformedRequest(t *testing.T) {
	fx := newFixture(t, defaultGatherFn, Options{})

	_, err := fx.orch.Research(context.Background(), Request{MarketID: "   "})
	if KindOf(err) != KindMalformedRequest {
		t.Fatalf("expected malformed_request, got %v", err)
	}
}

func TestResearchMarketNotFound(t *testing.T) {
	fx := newFixture(t, defaultGatherFn, Options{})

	_, err := fx.orch.Research(context.Background(), Request{MarketID: "nope"})
	if KindOf(err) != KindMarketNotFound {
		t.Fatalf("expected market_not_found, got %v", err)
	}
}

func TestResearchEndToEnd(t *testing.T) {
	fx := newFixture(t, defaultGatherFn, Options{})

	result, err := fx.orch.Research(context.Background(), Request{MarketID: "mkt-1"})
	if err != nil {
		t.Fatalf("Research: %v", err)
	}

	if result.Verdict != models.VerdictYes {
		t.Errorf("expected YES verdict, got %s (p_yes=%.3f)", result.Verdict, result.Probabilities.Yes)
	}
	sum := result.Probabilities.Yes + result.Probabilities.No + result.Probabilities.Uncertain
	if sum < 1-1e-6 || sum > 1+1e-6 {
		t.Errorf("probabilities must sum to 1, got %f", sum)
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		t.Errorf("confidence out of range: %f", result.Confidence)
	}
	if result.ID == "" || result.CompletedAt.IsZero() {
		t.Errorf("result missing identity fields: %+v", result)
	}
	if len(result.Sources) != 5 {
		t.Errorf("expected 5 graded sources, got %d", len(result.Sources))
	}
	if result.Analysis.Intermediate != nil {
		t.Errorf("intermediate outputs must be stripped unless requested")
	}

	// The full record, intermediates included, is persisted.
	entry, err := fx.cache.Lookup(context.Background(), "local", "mkt-1")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if entry == nil {
		t.Fatalf("result was not persisted")
	}
	if len(entry.Result.Analysis.Intermediate) == 0 {
		t.Errorf("persisted record must keep intermediate outputs")
	}
}

func TestResearchIncludeIntermediate(t *testing.T) {
	fx := newFixture(t, defaultGatherFn, Options{})

	result, err := fx.orch.Research(context.Background(), Request{MarketID: "mkt-1", IncludeIntermediate: true})
	if err != nil {
		t.Fatalf("Research: %v", err)
	}
	if len(result.Analysis.Intermediate) != 3 {
		t.Fatalf("expected 3 intermediate passes, got %d", len(result.Analysis.Intermediate))
	}
}

func TestResearchCacheHitSkipsPipeline(t *testing.T) {
	fx := newFixture(t, defaultGatherFn, Options{})

	first, err := fx.orch.Research(context.Background(), Request{MarketID: "mkt-1"})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := fx.orch.Research(context.Background(), Request{MarketID: "mkt-1"})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("cache hit must return the stored run, got %s vs %s", first.ID, second.ID)
	}
	if fx.gatherer.calls != 1 {
		t.Errorf("gatherer ran %d times, expected 1", fx.gatherer.calls)
	}
}

func TestResearchForceRefreshRunsFresh(t *testing.T) {
	fx := newFixture(t, defaultGatherFn, Options{})

	first, err := fx.orch.Research(context.Background(), Request{MarketID: "mkt-1"})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := fx.orch.Research(context.Background(), Request{MarketID: "mkt-1", ForceRefresh: true})
	if err != nil {
		t.Fatalf("refresh run: %v", err)
	}

	if first.ID == second.ID {
		t.Errorf("force refresh must produce a new run")
	}
	if fx.gatherer.calls != 2 {
		t.Errorf("gatherer ran %d times, expected 2", fx.gatherer.calls)
	}
}

func TestResearchGathererTimeoutIsBounded(t *testing.T) {
	slow := func(ctx context.Context, m models.Market, strat models.ResearchStrategy) ([]models.RawSource, error) {
		select {
		case <-time.After(5 * time.Second):
			return defaultGatherFn(ctx, m, strat)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	fx := newFixture(t, slow, Options{GatherTimeout: 50 * time.Millisecond})

	start := time.Now()
	_, err := fx.orch.Research(context.Background(), Request{MarketID: "mkt-1"})
	elapsed := time.Since(start)

	if KindOf(err) != KindGathererTimeout {
		t.Fatalf("expected gatherer_timeout, got %v", err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("timeout not bounded, took %v", elapsed)
	}
	if fx.analyzer.calls != 0 {
		t.Errorf("analyzer must not run after gatherer timeout")
	}
}

func TestResearchGathererFailure(t *testing.T) {
	failing := func(ctx context.Context, m models.Market, strat models.ResearchStrategy) ([]models.RawSource, error) {
		return nil, errors.New("upstream down")
	}
	fx := newFixture(t, failing, Options{})

	_, err := fx.orch.Research(context.Background(), Request{MarketID: "mkt-1"})
	if KindOf(err) != KindGathererFailure {
		t.Fatalf("expected gatherer_failure, got %v", err)
	}
}

func TestResearchEmptyEvidenceIsDistinct(t *testing.T) {
	empty := func(ctx context.Context, m models.Market, strat models.ResearchStrategy) ([]models.RawSource, error) {
		return nil, nil
	}
	fx := newFixture(t, empty, Options{})

	_, err := fx.orch.Research(context.Background(), Request{MarketID: "mkt-1"})
	if KindOf(err) != KindEmptyEvidence {
		t.Fatalf("expected gatherer_empty_result, got %v", err)
	}
	if fx.analyzer.calls != 0 {
		t.Errorf("analyzer must not run on empty evidence")
	}

	entry, err := fx.cache.Lookup(context.Background(), "local", "mkt-1")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if entry != nil {
		t.Errorf("failed runs must not be persisted")
	}
}

func TestResearchAnalyzerTimeout(t *testing.T) {
	fx := newFixture(t, defaultGatherFn, Options{AnalyzeTimeout: 50 * time.Millisecond})
	fx.analyzer.fn = func(ctx context.Context, m models.Market, sources []models.GradedSource) (*models.AnalysisResult, error) {
		select {
		case <-time.After(5 * time.Second):
			return &models.AnalysisResult{}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	_, err := fx.orch.Research(context.Background(), Request{MarketID: "mkt-1"})
	if KindOf(err) != KindAnalyzerTimeout {
		t.Fatalf("expected analyzer_timeout, got %v", err)
	}
}

func TestResearchAnalyzerFailure(t *testing.T) {
	fx := newFixture(t, defaultGatherFn, Options{})
	fx.analyzer.fn = func(ctx context.Context, m models.Market, sources []models.GradedSource) (*models.AnalysisResult, error) {
		return nil, errors.New("model unavailable")
	}

	_, err := fx.orch.Research(context.Background(), Request{MarketID: "mkt-1"})
	if KindOf(err) != KindAnalyzerFailure {
		t.Fatalf("expected analyzer_failure, got %v", err)
	}
}

func TestResearchSourcesSortedByGrade(t *testing.T) {
	ordered := func(ctx context.Context, m models.Market, strat models.ResearchStrategy) ([]models.RawSource, error) {
		return []models.RawSource{
			{URL: "https://x.com/d", Title: "d"},
			{URL: "https://x.com/a", Title: "a"},
			{URL: "https://x.com/c", Title: "c"},
			{URL: "https://x.com/b", Title: "b"},
		}, nil
	}

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	grader := gradeByURL{
		"https://x.com/a": models.GradeA,
		"https://x.com/b": models.GradeB,
		"https://x.com/c": models.GradeC,
		"https://x.com/d": models.GradeD,
	}
	orch := NewOrchestrator(catalog.NewStaticCatalog(testMarket()), NewStrategyPlanner(),
		&stubGatherer{fn: ordered}, grader, &stubAnalyzer{}, NewBayesianReasoner(), NewCache(store), Options{})

	result, err := orch.Research(context.Background(), Request{MarketID: "mkt-1"})
	if err != nil {
		t.Fatalf("Research: %v", err)
	}

	want := []models.Grade{models.GradeA, models.GradeB, models.GradeC, models.GradeD}
	for i, src := range result.Sources {
		if src.Grade != want[i] {
			t.Fatalf("source %d: expected grade %s, got %s (%v)", i, want[i], src.Grade, sourceGrades(result.Sources))
		}
	}
}

func sourceGrades(sources []models.GradedSource) []string {
	out := make([]string, len(sources))
	for i, s := range sources {
		out[i] = fmt.Sprintf("%s=%s", s.URL, s.Grade)
	}
	return out
}
