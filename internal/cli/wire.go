package cli

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/augurlabs/AugurGo/config"
	"github.com/augurlabs/AugurGo/internal/analysis"
	"github.com/augurlabs/AugurGo/internal/catalog"
	"github.com/augurlabs/AugurGo/internal/debug"
	"github.com/augurlabs/AugurGo/internal/gather"
	"github.com/augurlabs/AugurGo/internal/models"
	"github.com/augurlabs/AugurGo/internal/research"
	"github.com/augurlabs/AugurGo/internal/storage/sqlite"
	"github.com/augurlabs/AugurGo/internal/utils"
)

// pipeline bundles the wired research stack for one process.
type pipeline struct {
	orchestrator *research.Orchestrator
	store        *sqlite.Store
	cfg          *config.Config
}

func (p *pipeline) Close() {
	if p.store != nil {
		p.store.Close()
	}
}

// buildPipeline wires the orchestrator from configuration: sqlite-backed
// cache, market catalog, news gatherer with optional quote feed, and the
// analysis graph.
func buildPipeline(ctx context.Context, cfg *config.Config) (*pipeline, error) {
	store, err := sqlite.Open(cfg.StorePath)
	if err != nil {
		return nil, fmt.Errorf("open result store: %w", err)
	}

	var cache *research.Cache
	if cfg.CacheEnabled {
		cache = research.NewCache(store)
	}

	cat, err := buildCatalog(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	var gatherOpts []gather.NewsOption
	if cfg.OnlineTools {
		quotes := gather.NewYahooQuoteProvider(filepath.Join(cfg.DataCacheDir, "quotes"), cfg.CacheEnabled)
		gatherOpts = append(gatherOpts, gather.WithQuoteProvider(quotes))
	}
	gatherer := gather.NewNewsGatherer(cfg, gatherOpts...)

	if err := debug.NewEinoDebugger(cfg).Initialize(); err != nil {
		log.Printf("eino debug init failed: %v", err)
	}

	chatModel, err := analysis.InitChatModel(ctx, cfg)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("init chat model: %w", err)
	}
	analyzer, err := analysis.NewMultiAgentAnalyzer(ctx, chatModel)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("build analyzer: %w", err)
	}

	orch := research.NewOrchestrator(
		cat,
		research.NewStrategyPlanner(),
		gatherer,
		research.NewSourceGrader(),
		analyzer,
		research.NewBayesianReasoner(),
		cache,
		research.Options{
			GatherTimeout:  time.Duration(cfg.GatherTimeoutSecs) * time.Second,
			AnalyzeTimeout: time.Duration(cfg.AnalysisTimeoutSecs) * time.Second,
		},
	)

	return &pipeline{orchestrator: orch, store: store, cfg: cfg}, nil
}

// buildCatalog prefers a configured HTTP endpoint; without one it serves
// markets from data/markets.json so the tool works offline.
func buildCatalog(cfg *config.Config) (catalog.Catalog, error) {
	if cfg.CatalogBaseURL != "" {
		return catalog.NewCachedCatalog(catalog.NewHTTPCatalog(cfg.CatalogBaseURL)), nil
	}

	local := catalog.NewStaticCatalog()
	path := filepath.Join(cfg.DataDir, "markets.json")
	var markets []models.Market
	if err := utils.LoadDataFromFile(path, &markets); err == nil {
		for _, m := range markets {
			local.Add(m)
		}
	} else if cfg.Debug {
		log.Printf("no local market file at %s: %v", path, err)
	}
	return local, nil
}
