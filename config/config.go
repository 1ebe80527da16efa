package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the retrieval service.
type Config struct {
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Retrieve  RetrieveConfig  `yaml:"retrieve"`
	Geo       GeoConfig       `yaml:"geo"`
	Chat      ChatConfig      `yaml:"chat"`
	Session   SessionConfig   `yaml:"session"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SnapshotConfig locates the corpus snapshot and its embedding cache.
type SnapshotConfig struct {
	Path         string `yaml:"path"`          // corpus snapshot JSON
	DataDir      string `yaml:"data_dir"`      // fallback page files when the snapshot is missing
	CachePath    string `yaml:"cache_path"`    // bbolt embedding cache
	ForceRebuild bool   `yaml:"force_rebuild"` // bypass and invalidate the cache
}

// EmbeddingConfig holds embedding provider configuration.
type EmbeddingConfig struct {
	Provider  string `yaml:"provider"`    // "openai", "mock"
	Model     string `yaml:"model"`       // e.g. "text-embedding-ada-002"
	APIKeyEnv string `yaml:"api_key_env"` // environment variable for the API key
	BaseURL   string `yaml:"base_url"`
	Dimension int    `yaml:"dimension"`
	BatchSize int    `yaml:"batch_size"`
	Metric    string `yaml:"metric"` // "l2" or "ip"
}

// RetrieveConfig holds retrieval configuration.
type RetrieveConfig struct {
	TopK            int `yaml:"top_k"`
	MaxContextChars int `yaml:"max_context_chars"`
	CacheSize       int `yaml:"cache_size"`
	CacheTTLSecs    int `yaml:"cache_ttl_secs"`
}

// GeoConfig holds geocoding configuration.
type GeoConfig struct {
	BaseURL      string  `yaml:"base_url"`
	CountryCodes string  `yaml:"country_codes"`
	UserAgent    string  `yaml:"user_agent"`
	RatePerSec   float64 `yaml:"rate_per_sec"` // provider usage policy: 1 req/s for Nominatim
}

// ChatConfig configures the external answer-generation collaborator.
type ChatConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	BaseURL     string  `yaml:"base_url"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// SessionConfig bounds conversation memory kept by callers.
type SessionConfig struct {
	MaxTurns int `yaml:"max_turns"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Snapshot: SnapshotConfig{
			Path:      "knowledge.json",
			DataDir:   "data",
			CachePath: "embeddings.db",
		},
		Embedding: EmbeddingConfig{
			Provider:  "openai",
			Model:     "text-embedding-ada-002",
			APIKeyEnv: "OPENAI_API_KEY",
			BaseURL:   "https://api.openai.com/v1",
			Dimension: 1536,
			BatchSize: 20,
			Metric:    "l2",
		},
		Retrieve: RetrieveConfig{
			TopK:            5,
			MaxContextChars: 4000,
			CacheSize:       100,
			CacheTTLSecs:    300,
		},
		Geo: GeoConfig{
			BaseURL:      "https://nominatim.openstreetmap.org",
			CountryCodes: "fr",
			UserAgent:    "restorag/1.0",
			RatePerSec:   1,
		},
		Chat: ChatConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			APIKeyEnv:   "OPENAI_API_KEY",
			BaseURL:     "https://api.openai.com/v1",
			MaxTokens:   500,
			Temperature: 0,
		},
		Session: SessionConfig{
			MaxTurns: 10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnv()
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for restorag.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "restorag.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	cfg := DefaultConfig()
	cfg.ApplyEnv()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv applies environment overrides: RAG_SNAPSHOT replaces the snapshot
// path and REBUILD_EMBEDDINGS=true forces a full index rebuild.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("RAG_SNAPSHOT"); v != "" {
		c.Snapshot.Path = v
	}
	if v := os.Getenv("REBUILD_EMBEDDINGS"); v != "" {
		c.Snapshot.ForceRebuild = strings.EqualFold(v, "true") || v == "1"
	}
}

// LogLevel maps the configured level string to a slog level.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
