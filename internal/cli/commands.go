package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/augurlabs/AugurGo/config"
	"github.com/augurlabs/AugurGo/internal/research"
)

// configLoader serves the config every command reads. It prefers the
// managed config.json (created on first run, hot-reloaded on external
// edits); when the file cannot be managed it falls back to the
// environment-derived config without reload.
type configLoader struct {
	mgr      *config.Manager
	fallback *config.Config
}

func newConfigLoader(base *config.Config) *configLoader {
	mgr, err := config.NewManager(
		config.WithConfigDir(base.ProjectDir),
		config.WithInitialConfig(base),
	)
	if err != nil {
		log.Printf("config manager unavailable, using environment config: %v", err)
		return &configLoader{fallback: base}
	}
	return &configLoader{mgr: mgr}
}

// current returns a snapshot of the active config. Commands call it per
// run so external config.json edits apply between runs.
func (l *configLoader) current() *config.Config {
	if l.mgr == nil {
		return l.fallback
	}
	cfg := l.mgr.Get()
	return &cfg
}

func (l *configLoader) path() string {
	if l.mgr == nil {
		return ""
	}
	return l.mgr.Path()
}

func (l *configLoader) watch(ctx context.Context) {
	if l.mgr == nil {
		return
	}
	err := l.mgr.Watch(ctx, func(cfg config.Config) {
		log.Printf("configuration reloaded from %s", l.mgr.Path())
	})
	if err != nil {
		log.Printf("config watch unavailable: %v", err)
	}
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	loader := newConfigLoader(config.DefaultConfig())

	rootCmd := &cobra.Command{
		Use:   "augurgo",
		Short: "AugurGo - Prediction Market Research",
		Long: `AugurGo researches prediction market questions end to end: it plans a
search strategy, gathers and grades evidence, runs a multi-pass analysis,
and fuses everything into a calibrated YES/NO/UNCERTAIN verdict.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loader.watch(cmd.Context())
			if err := loader.current().EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveMode(loader)
		},
	}

	rootCmd.AddCommand(newResearchCmd(loader))
	rootCmd.AddCommand(newHistoryCmd(loader))
	rootCmd.AddCommand(newConfigCmd(loader))
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug mode")

	return rootCmd
}

func newResearchCmd(loader *configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "research [MARKET_ID]",
		Short: "Research a prediction market and produce a verdict",
		Long: `Run the full research pipeline for a market id from the configured catalog.
Example: augurgo research mkt-btc-100k --refresh`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refresh, _ := cmd.Flags().GetBool("refresh")
			intermediate, _ := cmd.Flags().GetBool("intermediate")

			return runResearchCommand(loader.current(), args[0], refresh, intermediate)
		},
	}

	cmd.Flags().Bool("refresh", false, "Bypass the cached result and research fresh")
	cmd.Flags().Bool("intermediate", false, "Include per-pass analysis outputs")

	return cmd
}

func newHistoryCmd(loader *configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [MARKET_ID]",
		Short: "List past research runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			marketID := ""
			if len(args) > 0 {
				marketID = args[0]
			}
			limit, _ := cmd.Flags().GetInt("limit")
			return runHistoryCommand(loader.current(), marketID, limit)
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum number of runs to list")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("AugurGo v1.0.0")
			fmt.Println("Prediction Market Research Pipeline")
		},
	}
}

func newConfigCmd(loader *configLoader) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "Manage AugurGo configuration settings",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Run: func(cmd *cobra.Command, args []string) {
			showConfig(loader.current(), loader.path())
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and dependencies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateConfig(loader.current())
		},
	})

	return configCmd
}

// runResearchCommand executes one research run and renders the verdict.
func runResearchCommand(cfg *config.Config, marketID string, refresh, intermediate bool) error {
	ctx := context.Background()

	p, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	fmt.Printf("🔎 Researching market %s...\n", marketID)

	result, err := p.orchestrator.Research(ctx, research.Request{
		UserID:              cfg.UserID,
		MarketID:            marketID,
		ForceRefresh:        refresh,
		IncludeIntermediate: intermediate,
	})
	if err != nil {
		return describeResearchError(err)
	}

	RenderResult(result)

	reportPath, err := WriteMarkdownReport(cfg, result)
	if err != nil {
		fmt.Printf("⚠️  Could not write report: %v\n", err)
	} else {
		fmt.Printf("📄 Report saved to %s\n", reportPath)
	}

	return nil
}

func runHistoryCommand(cfg *config.Config, marketID string, limit int) error {
	ctx := context.Background()

	p, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	records, err := p.store.History(ctx, cfg.UserID, marketID, 0, limit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("No research runs recorded yet.")
		return nil
	}

	RenderHistory(records)
	return nil
}

// describeResearchError translates pipeline error kinds into actionable
// messages; unknown errors pass through unchanged.
func describeResearchError(err error) error {
	switch research.KindOf(err) {
	case research.KindMalformedRequest:
		return fmt.Errorf("invalid request: %w", err)
	case research.KindMarketNotFound:
		return fmt.Errorf("market not found in catalog (check the id or CATALOG_BASE_URL): %w", err)
	case research.KindGathererTimeout:
		return fmt.Errorf("evidence gathering timed out; try again or raise GATHER_TIMEOUT_SECS: %w", err)
	case research.KindGathererFailure:
		return fmt.Errorf("evidence gathering failed: %w", err)
	case research.KindEmptyEvidence:
		return fmt.Errorf("no evidence found for this market; the question may be too niche: %w", err)
	case research.KindAnalyzerTimeout:
		return fmt.Errorf("analysis timed out; try again or raise ANALYSIS_TIMEOUT_SECS: %w", err)
	case research.KindAnalyzerFailure:
		return fmt.Errorf("analysis failed: %w", err)
	default:
		return err
	}
}

func showConfig(cfg *config.Config, configPath string) {
	fmt.Println("📋 Current AugurGo Configuration:")
	fmt.Println("═══════════════════════════════════════")
	if configPath != "" {
		fmt.Printf("Config File:          %s\n", configPath)
	}
	fmt.Printf("Project Directory:    %s\n", cfg.ProjectDir)
	fmt.Printf("Results Directory:    %s\n", cfg.ResultsDir)
	fmt.Printf("Data Directory:       %s\n", cfg.DataDir)
	fmt.Printf("Cache Directory:      %s\n", cfg.DataCacheDir)
	fmt.Printf("Result Store:         %s\n", cfg.StorePath)
	fmt.Println()
	fmt.Printf("LLM Provider:         %s\n", cfg.LLMProvider)
	fmt.Printf("Synthesis Model:      %s\n", cfg.SynthesisModel)
	fmt.Printf("Backend URL:          %s\n", cfg.BackendURL)
	fmt.Printf("Catalog Base URL:     %s\n", cfg.CatalogBaseURL)
	fmt.Printf("User ID:              %s\n", cfg.UserID)
	fmt.Println()
	fmt.Printf("Gather Timeout:       %ds\n", cfg.GatherTimeoutSecs)
	fmt.Printf("Analysis Timeout:     %ds\n", cfg.AnalysisTimeoutSecs)
	fmt.Printf("Max Sources/Query:    %d\n", cfg.MaxSourcesPerQuery)
	fmt.Println()
	fmt.Printf("Online Tools:         %t\n", cfg.OnlineTools)
	fmt.Printf("Cache Enabled:        %t\n", cfg.CacheEnabled)
	fmt.Printf("Debug Mode:           %t\n", cfg.Debug)
	fmt.Printf("Eino Debug:           %t\n", cfg.EinoDebugEnabled)
	if cfg.EinoDebugEnabled {
		fmt.Printf("Eino Debug Port:      %d\n", cfg.EinoDebugPort)
		fmt.Printf("Debug URL:            http://localhost:%d\n", cfg.EinoDebugPort)
	}
	fmt.Println()

	fmt.Println("🔌 API Configuration:")
	fmt.Println("─────────────────────")
	if cfg.DeepSeekAPIKey != "" {
		fmt.Println("DeepSeek API:         ✅ Configured")
	} else {
		fmt.Println("DeepSeek API:         ❌ Not configured")
	}
	if cfg.OpenAIAPIKey != "" {
		fmt.Println("OpenAI API:           ✅ Configured")
	} else {
		fmt.Println("OpenAI API:           ❌ Not configured")
	}
}

func validateConfig(cfg *config.Config) error {
	fmt.Println("🔍 Validating AugurGo Configuration...")
	fmt.Println("═══════════════════════════════════════")

	fmt.Print("📁 Checking directories... ")
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Println("❌")
		return fmt.Errorf("directory validation failed: %w", err)
	}
	fmt.Println("✅")

	fmt.Print("⚙️  Checking configuration values... ")
	if err := cfg.Validate(); err != nil {
		fmt.Println("❌")
		return err
	}
	fmt.Println("✅")

	fmt.Print("🔑 Checking API keys... ")
	var warnings []string
	if cfg.LLMProvider == "deepseek" && cfg.DeepSeekAPIKey == "" {
		warnings = append(warnings, "DeepSeek API key not configured; synthesis narrative will be heuristic")
	}
	if cfg.LLMProvider == "openai" && cfg.OpenAIAPIKey == "" {
		warnings = append(warnings, "OpenAI API key not configured; synthesis narrative will be heuristic")
	}
	if cfg.CatalogBaseURL == "" {
		warnings = append(warnings, "No catalog endpoint configured; using local data/markets.json")
	}

	if len(warnings) > 0 {
		fmt.Println("⚠️")
		for _, warning := range warnings {
			fmt.Printf("  ⚠️  %s\n", warning)
		}
	} else {
		fmt.Println("✅")
	}

	fmt.Println()
	if len(warnings) == 0 {
		fmt.Println("✅ Configuration validation completed successfully!")
	} else {
		fmt.Printf("⚠️  Configuration validation completed with %d warnings.\n", len(warnings))
	}

	fmt.Println()
	fmt.Println("💡 Tips:")
	fmt.Println("  • Set DEEPSEEK_API_KEY or OPENAI_API_KEY for LLM-written syntheses")
	fmt.Println("  • Set CATALOG_BASE_URL to point at a live market catalog")
	fmt.Println("  • Use 'augurgo research <market-id>' to start your first run")

	return nil
}
