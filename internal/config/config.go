package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	domrl "github.com/kailas-cloud/catalogd/internal/domain/ratelimit"
	"github.com/kailas-cloud/catalogd/internal/domain/search/capability"
)

// Config holds the catalogd API configuration.
type Config struct {
	HTTP     HTTPConfig        `yaml:"http"`
	Database DatabaseConfig    `yaml:"database"`
	LLM      LLMConfig         `yaml:"llm"`
	RAG      RAGConfig         `yaml:"rag"`
	Auth     AuthConfig        `yaml:"auth"`
	Catalog  CatalogConfig     `yaml:"catalog"`
	Logging  LoggingConfig     `yaml:"logging"`
	Search   capability.Config `yaml:"search"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds admin API authentication settings.
type AuthConfig struct {
	AdminAPIKeys []string `yaml:"admin_api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int  `yaml:"port"`
	ReadTimeoutSec  int  `yaml:"read_timeout_sec"`
	WriteTimeoutSec int  `yaml:"write_timeout_sec"`
	ShutdownSec     int  `yaml:"shutdown_timeout_sec"`
	SecureCookies   bool `yaml:"secure_cookies"`
}

// DatabaseConfig holds Redis/Valkey connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
}

// LLMConfig holds the OpenAI-compatible provider settings for embeddings and chat.
type LLMConfig struct {
	Provider       string `yaml:"provider"` // metrics label only
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	EmbeddingModel string `yaml:"embedding_model"`
	Dimensions     int    `yaml:"dimensions"`
	ChatModel      string `yaml:"chat_model"`
	MaxTokens      int    `yaml:"max_tokens"`
	BatchSize      int    `yaml:"batch_size"`
}

// RAGConfig holds question answering settings.
type RAGConfig struct {
	Enabled              bool       `yaml:"enabled"`
	CacheTTLSec          int        `yaml:"cache_ttl_sec"`
	EmbeddingCacheTTLSec int        `yaml:"embedding_cache_ttl_sec"`
	PremiumAccessCode    string     `yaml:"premium_access_code"`
	SessionLimits        TierLimits `yaml:"session_limits"`
	IPLimits             TierLimits `yaml:"ip_limits"`
}

// TierLimits holds hourly question quotas per tier.
type TierLimits struct {
	Free    int64 `yaml:"free"`
	Premium int64 `yaml:"premium"`
	Admin   int64 `yaml:"admin"`
}

// Limits converts the quotas into the domain type.
func (t TierLimits) Limits() domrl.Limits {
	return domrl.Limits{
		domrl.TierFree:    t.Free,
		domrl.TierPremium: t.Premium,
		domrl.TierAdmin:   t.Admin,
	}
}

// CacheTTL returns the answer cache lifetime.
func (c RAGConfig) CacheTTL() time.Duration { return time.Duration(c.CacheTTLSec) * time.Second }

// EmbeddingCacheTTL returns the query embedding cache lifetime.
func (c RAGConfig) EmbeddingCacheTTL() time.Duration {
	return time.Duration(c.EmbeddingCacheTTLSec) * time.Second
}

// CatalogConfig holds seed data settings.
type CatalogConfig struct {
	SeedDir     string `yaml:"seed_dir"`
	SeedOnStart bool   `yaml:"seed_on_start"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes, defaults and validates a YAML document.
func Parse(data []byte) (Config, error) {
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
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.KeyPrefix == "" {
		c.Database.KeyPrefix = "catalogd:"
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.EmbeddingModel == "" {
		c.LLM.EmbeddingModel = "text-embedding-3-small"
	}
	if c.LLM.Dimensions <= 0 {
		c.LLM.Dimensions = 1536
	}
	if c.LLM.ChatModel == "" {
		c.LLM.ChatModel = "gpt-4o-mini"
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 500
	}
	if c.LLM.BatchSize <= 0 {
		c.LLM.BatchSize = 32
	}
	if c.RAG.CacheTTLSec <= 0 {
		c.RAG.CacheTTLSec = 300
	}
	if c.RAG.EmbeddingCacheTTLSec <= 0 {
		c.RAG.EmbeddingCacheTTLSec = 86400
	}
	c.RAG.SessionLimits.applyDefaults(TierLimits{Free: 10, Premium: 100, Admin: 1000})
	c.RAG.IPLimits.applyDefaults(c.RAG.SessionLimits)
}

func (t *TierLimits) applyDefaults(def TierLimits) {
	if t.Free <= 0 {
		t.Free = def.Free
	}
	if t.Premium <= 0 {
		t.Premium = def.Premium
	}
	if t.Admin <= 0 {
		t.Admin = def.Admin
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return errors.New("database.addrs is required")
	}
	if c.RAG.Enabled && c.LLM.APIKey == "" {
		return errors.New("llm.api_key is required when rag.enabled is true")
	}
	if err := c.Search.Validate(); err != nil {
		return fmt.Errorf("search: %w", err)
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
