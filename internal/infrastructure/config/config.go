// Package config loads service configuration from environment variables,
// with an optional TOML file taking the place of the environment when
// CASTIEL_CONFIG_FILE points at one.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all service configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	ML        MLConfig
	Assembly  AssemblyConfig
	Ingestion IngestionConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" toml:"port" default:"8000"`
	Host string `envconfig:"HOST" toml:"host" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" toml:"level" default:"info"`
	Development bool   `envconfig:"LOG_DEV" toml:"development" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" toml:"requests_per_second" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" toml:"burst" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" toml:"enabled" default:"true"`
}

// MLConfig holds ML scoring service configuration.
type MLConfig struct {
	BaseURL string `envconfig:"ML_SERVICE_URL" toml:"base_url" default:"http://localhost:8001"`
	Enabled bool   `envconfig:"ML_ENABLED" toml:"enabled" default:"true"`
}

// AssemblyConfig holds context assembly configuration.
type AssemblyConfig struct {
	TokenBudget int `envconfig:"ASSEMBLY_TOKEN_BUDGET" toml:"token_budget" default:"8000"`
	CacheSize   int `envconfig:"ASSEMBLY_CACHE_SIZE" toml:"cache_size" default:"1024"`
}

// IngestionConfig holds document ingestion configuration.
type IngestionConfig struct {
	MaxDocumentBytes int `envconfig:"INGEST_MAX_DOCUMENT_BYTES" toml:"max_document_bytes" default:"10485760"`
}

// ConfigFileEnv names the environment variable that points at a TOML
// configuration file.
const ConfigFileEnv = "CASTIEL_CONFIG_FILE"

// Load loads configuration from the environment. When CASTIEL_CONFIG_FILE
// is set, the file is loaded over the defaults instead.
func Load() (*Config, error) {
	if path := os.Getenv(ConfigFileEnv); path != "" {
		return LoadFile(path)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadFile loads configuration from a TOML file over the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault loads configuration or falls back to defaults.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		ML: MLConfig{
			BaseURL: "http://localhost:8001",
			Enabled: true,
		},
		Assembly: AssemblyConfig{
			TokenBudget: 8000,
			CacheSize:   1024,
		},
		Ingestion: IngestionConfig{
			MaxDocumentBytes: 10 * 1024 * 1024,
		},
	}
}
