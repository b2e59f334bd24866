package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectDir   string `json:"project_dir"`
	ResultsDir   string `json:"results_dir"`
	DataDir      string `json:"data_dir"`
	DataCacheDir string `json:"data_cache_dir"`
	StorePath    string `json:"store_path"`

	LLMProvider    string `json:"llm_provider"`
	SynthesisModel string `json:"synthesis_model"`
	BackendURL     string `json:"backend_url"`

	CatalogBaseURL string `json:"catalog_base_url"`
	UserID         string `json:"user_id"`

	GatherTimeoutSecs   int  `json:"gather_timeout_secs"`
	AnalysisTimeoutSecs int  `json:"analysis_timeout_secs"`
	MaxSourcesPerQuery  int  `json:"max_sources_per_query"`
	OnlineTools         bool `json:"online_tools"`
	Debug               bool `json:"debug"`

	// Eino Debug configuration
	EinoDebugEnabled bool `json:"eino_debug_enabled"`
	EinoDebugPort    int  `json:"eino_debug_port"`

	CacheEnabled bool `json:"cache_enabled"`

	// AI Model API Keys
	DeepSeekAPIKey string `json:"deepseek_api_key"`
	OpenAIAPIKey   string `json:"openai_api_key"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()
	cfg := DefaultConfigWithRoot(currentDir)

	// Load environment variables from .env file
	_ = godotenv.Load()

	// Override with environment variables if they exist
	cfg.loadFromEnv()

	return cfg
}

func DefaultConfigWithRoot(root string) *Config {
	return &Config{
		ProjectDir:   root,
		ResultsDir:   filepath.Join(root, "results"),
		DataDir:      filepath.Join(root, "data"),
		DataCacheDir: filepath.Join(root, "data", "cache"),
		StorePath:    filepath.Join(root, "data", "augurgo.db"),

		LLMProvider:    "deepseek",
		SynthesisModel: "deepseek-chat",
		BackendURL:     "",

		CatalogBaseURL: "",
		UserID:         "local",

		GatherTimeoutSecs:   60,
		AnalysisTimeoutSecs: 90,
		MaxSourcesPerQuery:  8,
		OnlineTools:         true,
		Debug:               false,

		// Eino Debug defaults
		EinoDebugEnabled: false,
		EinoDebugPort:    52538,

		CacheEnabled: true,
	}
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("RESULTS_DIR"); val != "" {
		c.ResultsDir = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("DATA_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}
	if val := os.Getenv("STORE_PATH"); val != "" {
		c.StorePath = val
	}

	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = val
	}
	if val := os.Getenv("SYNTHESIS_MODEL"); val != "" {
		c.SynthesisModel = val
	}
	if val := os.Getenv("BACKEND_URL"); val != "" {
		c.BackendURL = val
	}

	if val := os.Getenv("CATALOG_BASE_URL"); val != "" {
		c.CatalogBaseURL = val
	}
	if val := os.Getenv("AUGURGO_USER_ID"); val != "" {
		c.UserID = val
	}

	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if cache, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = cache
		}
	}

	if val := os.Getenv("ONLINE_TOOLS"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.OnlineTools = enabled
		}
	}

	if val := os.Getenv("GATHER_TIMEOUT_SECS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.GatherTimeoutSecs = v
		}
	}
	if val := os.Getenv("ANALYSIS_TIMEOUT_SECS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.AnalysisTimeoutSecs = v
		}
	}
	if val := os.Getenv("MAX_SOURCES_PER_QUERY"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxSourcesPerQuery = v
		}
	}

	if val := os.Getenv("AUGURGO_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}

	if val := os.Getenv("EINO_DEBUG_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.EinoDebugEnabled = enabled
		}
	}
	if val := os.Getenv("EINO_DEBUG_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.EinoDebugPort = port
		}
	}

	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" {
		c.DeepSeekAPIKey = val
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		c.OpenAIAPIKey = val
	}
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.ProjectDir) == "" {
		return fmt.Errorf("project_dir is required")
	}
	if strings.TrimSpace(c.StorePath) == "" {
		return fmt.Errorf("store_path is required")
	}
	if c.GatherTimeoutSecs <= 0 {
		return fmt.Errorf("gather_timeout_secs must be positive, got %d", c.GatherTimeoutSecs)
	}
	if c.AnalysisTimeoutSecs <= 0 {
		return fmt.Errorf("analysis_timeout_secs must be positive, got %d", c.AnalysisTimeoutSecs)
	}
	switch c.LLMProvider {
	case "", "deepseek", "openai", "none":
	default:
		return fmt.Errorf("unsupported llm_provider %q", c.LLMProvider)
	}
	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ProjectDir, c.ResultsDir, c.DataDir, c.DataCacheDir}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}
