package research

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/augurlabs/AugurGo/internal/catalog"
	"github.com/augurlabs/AugurGo/internal/models"
)

// Gatherer collects raw evidence for a strategy. An empty slice with a
// nil error means the search ran but found nothing.
type Gatherer interface {
	Gather(ctx context.Context, market models.Market, strat models.ResearchStrategy) ([]models.RawSource, error)
}

// Analyzer produces the structured analysis for graded evidence.
type Analyzer interface {
	Analyze(ctx context.Context, market models.Market, sources []models.GradedSource) (*models.AnalysisResult, error)
}

// rationaleGrader is implemented by graders that explain their grades.
type rationaleGrader interface {
	GradeWithRationale(src models.RawSource, m models.Market) models.GradedSource
}

// Request is one research run for a (user, market) pair.
type Request struct {
	UserID   string
	MarketID string

	// ForceRefresh bypasses the staleness check and always runs fresh.
	ForceRefresh bool

	// IncludeIntermediate keeps the per-pass analysis outputs on the
	// returned result. They are always persisted in full.
	IncludeIntermediate bool
}

// Options tune the orchestrator's collaborator deadlines.
type Options struct {
	GatherTimeout  time.Duration
	AnalyzeTimeout time.Duration
}

const (
	defaultGatherTimeout  = 60 * time.Second
	defaultAnalyzeTimeout = 90 * time.Second
	defaultUserID         = "local"
)

// Orchestrator drives one research run end to end: cache check, market
// lookup, planning, gathering, grading, analysis, Bayesian fusion,
// verdict, persistence. Stages run strictly in order; each failure maps
// to exactly one error kind.
type Orchestrator struct {
	catalog  catalog.Catalog
	planner  Planner
	gatherer Gatherer
	grader   Grader
	analyzer Analyzer
	reasoner *BayesianReasoner
	cache    *Cache
	opts     Options
}

func NewOrchestrator(cat catalog.Catalog, planner Planner, gatherer Gatherer, grader Grader, analyzer Analyzer, reasoner *BayesianReasoner, cache *Cache, opts Options) *Orchestrator {
	if opts.GatherTimeout <= 0 {
		opts.GatherTimeout = defaultGatherTimeout
	}
	if opts.AnalyzeTimeout <= 0 {
		opts.AnalyzeTimeout = defaultAnalyzeTimeout
	}
	return &Orchestrator{
		catalog:  cat,
		planner:  planner,
		gatherer: gatherer,
		grader:   grader,
		analyzer: analyzer,
		reasoner: reasoner,
		cache:    cache,
		opts:     opts,
	}
}

func (o *Orchestrator) Research(ctx context.Context, req Request) (*models.MarketResearchResult, error) {
	marketID := strings.TrimSpace(req.MarketID)
	if marketID == "" {
		return nil, newError(KindMalformedRequest, StageValidating, "market id is required", nil)
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		userID = defaultUserID
	}

	// Fresh-enough cached runs are returned as-is. Cache read failures
	// never abort a run; we just research again.
	if o.cache != nil && !req.ForceRefresh {
		entry, err := o.cache.Lookup(ctx, userID, marketID)
		if err != nil {
			log.Printf("cache lookup for %s/%s failed: %v", userID, marketID, err)
		} else if entry != nil && !o.cache.IsStale(entry) {
			return withIntermediate(entry.Result, req.IncludeIntermediate), nil
		}
	}

	market, err := o.catalog.GetMarket(ctx, marketID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, newError(KindMarketNotFound, StageCacheCheck, "market "+marketID+" not found", err)
		}
		return nil, newError(KindMarketNotFound, StageCacheCheck, "market lookup failed", err)
	}

	siblings := catalog.EventSiblings(ctx, o.catalog, *market)
	strat := o.planner.Plan(*market, siblings)

	raw, err := o.gatherWithTimeout(ctx, *market, strat)
	if err != nil {
		return nil, err
	}
	raw = models.DedupeByURL(raw)
	if len(raw) == 0 {
		return nil, newError(KindEmptyEvidence, StageGathering, "no evidence found for market "+marketID, nil)
	}

	graded := o.gradeAll(raw, *market)
	models.SortByGrade(graded)

	analysis, err := o.analyzeWithTimeout(ctx, *market, graded)
	if err != nil {
		return nil, err
	}

	bayesian := o.reasoner.Reason(graded, analysis, *market)
	verdict := ResolveVerdict(bayesian.Probabilities)

	result := models.MarketResearchResult{
		ID:            uuid.NewString(),
		MarketID:      market.ID,
		Question:      market.Question,
		Verdict:       verdict,
		Confidence:    bayesian.Confidence,
		Probabilities: bayesian.Probabilities,
		Sources:       graded,
		Analysis:      *analysis,
		Bayesian:      bayesian,
		Strategy:      strat,
		CompletedAt:   time.Now().UTC(),
	}

	// Persistence failures are logged, never surfaced; the run already
	// produced its answer.
	if o.cache != nil {
		if err := o.cache.Store(ctx, userID, result); err != nil {
			log.Printf("persist research result %s: %v", result.ID, err)
		}
	}

	return withIntermediate(result, req.IncludeIntermediate), nil
}

func (o *Orchestrator) gradeAll(raw []models.RawSource, m models.Market) []models.GradedSource {
	rg, _ := o.grader.(rationaleGrader)
	graded := make([]models.GradedSource, 0, len(raw))
	for _, src := range raw {
		if rg != nil {
			graded = append(graded, rg.GradeWithRationale(src, m))
			continue
		}
		graded = append(graded, models.GradedSource{RawSource: src, Grade: o.grader.Grade(src, m)})
	}
	return graded
}

func (o *Orchestrator) gatherWithTimeout(ctx context.Context, m models.Market, strat models.ResearchStrategy) ([]models.RawSource, error) {
	gctx, cancel := context.WithTimeout(ctx, o.opts.GatherTimeout)
	defer cancel()

	type gatherOut struct {
		sources []models.RawSource
		err     error
	}
	// Buffered so a late gatherer can finish without anyone listening.
	ch := make(chan gatherOut, 1)
	go func() {
		sources, err := o.gatherer.Gather(gctx, m, strat)
		ch <- gatherOut{sources: sources, err: err}
	}()

	select {
	case out := <-ch:
		if out.err != nil {
			if errors.Is(out.err, context.DeadlineExceeded) {
				return nil, newError(KindGathererTimeout, StageGathering, "evidence gathering timed out", out.err)
			}
			return nil, newError(KindGathererFailure, StageGathering, "evidence gathering failed", out.err)
		}
		return out.sources, nil
	case <-gctx.Done():
		if errors.Is(gctx.Err(), context.DeadlineExceeded) {
			return nil, newError(KindGathererTimeout, StageGathering, "evidence gathering timed out", gctx.Err())
		}
		return nil, newError(KindGathererFailure, StageGathering, "evidence gathering canceled", gctx.Err())
	}
}

func (o *Orchestrator) analyzeWithTimeout(ctx context.Context, m models.Market, graded []models.GradedSource) (*models.AnalysisResult, error) {
	actx, cancel := context.WithTimeout(ctx, o.opts.AnalyzeTimeout)
	defer cancel()

	type analyzeOut struct {
		result *models.AnalysisResult
		err    error
	}
	ch := make(chan analyzeOut, 1)
	go func() {
		result, err := o.analyzer.Analyze(actx, m, graded)
		ch <- analyzeOut{result: result, err: err}
	}()

	select {
	case out := <-ch:
		if out.err != nil {
			if errors.Is(out.err, context.DeadlineExceeded) {
				return nil, newError(KindAnalyzerTimeout, StageAnalyzing, "analysis timed out", out.err)
			}
			return nil, newError(KindAnalyzerFailure, StageAnalyzing, "analysis failed", out.err)
		}
		return out.result, nil
	case <-actx.Done():
		if errors.Is(actx.Err(), context.DeadlineExceeded) {
			return nil, newError(KindAnalyzerTimeout, StageAnalyzing, "analysis timed out", actx.Err())
		}
		return nil, newError(KindAnalyzerFailure, StageAnalyzing, "analysis canceled", actx.Err())
	}
}

// withIntermediate returns a caller-facing copy, stripping the per-pass
// outputs unless they were requested. The persisted record keeps them.
func withIntermediate(result models.MarketResearchResult, include bool) *models.MarketResearchResult {
	if !include {
		result.Analysis.Intermediate = nil
	}
	return &result
}
