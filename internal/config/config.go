package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the prodfind API configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Retriever  RetrieverConfig  `yaml:"retriever"`
	Search     SearchConfig     `yaml:"search"`
	Data       DataConfig       `yaml:"data"`
	Storage    StorageConfig    `yaml:"storage"`
	Auth       AuthConfig       `yaml:"auth"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds vector index store connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	APIKey        string `yaml:"api_key"`
	BaseURL       string `yaml:"base_url"`
	Model         string `yaml:"model"`
	Dimensions    int    `yaml:"dimensions"`
	PassagePrefix string `yaml:"passage_prefix"`
	QueryPrefix   string `yaml:"query_prefix"`
}

// ClassifierConfig holds external LLM classifier settings.
// An empty api_key disables the classifier; the retriever's top candidate
// is then used directly.
type ClassifierConfig struct {
	APIKey        string `yaml:"api_key"`
	Model         string `yaml:"model"`
	TimeoutSec    int    `yaml:"timeout_sec"`
	FallbackToTop *bool  `yaml:"fallback_to_top"` // default true
}

// RetrieverConfig holds hybrid category retriever parameters.
type RetrieverConfig struct {
	TopK           int     `yaml:"top_k"`
	SemanticWeight float64 `yaml:"semantic_weight"`
	KeywordWeight  float64 `yaml:"keyword_weight"`
	ScoreThreshold float64 `yaml:"score_threshold"`
}

// SearchConfig holds vector search and fusion parameters.
type SearchConfig struct {
	TopK                int     `yaml:"top_k"`
	ExpansionFactor     int     `yaml:"expansion_factor"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	CategoryBoost       float64 `yaml:"category_boost"`
	TermMatchBoost      float64 `yaml:"term_match_boost"`
	MaxResults          int     `yaml:"max_results"`
}

// DataConfig holds paths to the catalog and the index snapshot metadata.
type DataConfig struct {
	CatalogPath    string `yaml:"catalog_path"`
	MetadataPath   string `yaml:"metadata_path"`
	ExpansionsPath string `yaml:"expansions_path"`
}

// StorageConfig holds vector index naming settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
	IndexName string `yaml:"index_name"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Embedding.PassagePrefix == "" {
		c.Embedding.PassagePrefix = "passage: "
	}
	if c.Embedding.QueryPrefix == "" {
		c.Embedding.QueryPrefix = "query: "
	}
	if c.Classifier.Model == "" {
		c.Classifier.Model = "gemini-2.0-flash"
	}
	if c.Classifier.TimeoutSec <= 0 {
		c.Classifier.TimeoutSec = 10
	}
	if c.Classifier.FallbackToTop == nil {
		t := true
		c.Classifier.FallbackToTop = &t
	}
	if c.Retriever.TopK <= 0 {
		c.Retriever.TopK = 3
	}
	if c.Retriever.SemanticWeight == 0 {
		c.Retriever.SemanticWeight = 0.6
	}
	if c.Retriever.KeywordWeight == 0 {
		c.Retriever.KeywordWeight = 0.4
	}
	if c.Retriever.ScoreThreshold == 0 {
		c.Retriever.ScoreThreshold = 0.2
	}
	if c.Search.TopK <= 0 {
		c.Search.TopK = 5
	}
	if c.Search.ExpansionFactor <= 0 {
		c.Search.ExpansionFactor = 3
	}
	if c.Search.SimilarityThreshold == 0 {
		c.Search.SimilarityThreshold = 0.3
	}
	if c.Search.CategoryBoost == 0 {
		c.Search.CategoryBoost = 1.2
	}
	if c.Search.TermMatchBoost == 0 {
		c.Search.TermMatchBoost = 0.1
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = 50
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "prodfind:products:"
	}
	if c.Storage.IndexName == "" {
		c.Storage.IndexName = "prodfind:products:idx"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}
	if c.Data.CatalogPath == "" {
		return fmt.Errorf("data.catalog_path is required")
	}
	if c.Data.MetadataPath == "" {
		return fmt.Errorf("data.metadata_path is required")
	}
	if c.Retriever.SemanticWeight < 0 || c.Retriever.KeywordWeight < 0 {
		return fmt.Errorf("retriever weights must be non-negative")
	}
	if c.Search.SimilarityThreshold < 0 || c.Search.SimilarityThreshold > 1 {
		return fmt.Errorf("search.similarity_threshold must be in [0,1], got %g", c.Search.SimilarityThreshold)
	}
	if c.Search.CategoryBoost < 1 {
		return fmt.Errorf("search.category_boost must be >= 1, got %g", c.Search.CategoryBoost)
	}
	if c.Search.MaxResults > 50 {
		return fmt.Errorf("search.max_results must be at most 50, got %d", c.Search.MaxResults)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
