// Package config loads service configuration from an optional YAML file
// with DOCMIND_* environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultPath is the config file looked up when none is specified.
const DefaultPath = "documind.yml"

// Config holds every tunable of the service. Defaults mirror the
// production settings; any key can be overridden per deployment.
type Config struct {
	// HTTP service.
	Port            int  `koanf:"port"`
	AllowAllOrigins bool `koanf:"allow_all_origins"`

	// Vector store.
	QdrantHost string `koanf:"qdrant_host"`
	QdrantPort int    `koanf:"qdrant_port"`

	// Models.
	EmbeddingModel     string `koanf:"embedding_model"`
	EmbeddingDimension int    `koanf:"embedding_dimension"`
	ChatModel          string `koanf:"chat_model"`

	// Chunking window.
	ChunkSize    int `koanf:"chunk_size"`
	ChunkOverlap int `koanf:"chunk_overlap"`

	// Query-time generation.
	TopK        int     `koanf:"top_k"`
	MaxTokens   int     `koanf:"max_tokens"`
	Temperature float64 `koanf:"temperature"`

	// Query history database.
	HistoryPath string `koanf:"history_path"`
}

// DefaultConfig returns a Config with the stock settings.
func DefaultConfig() *Config {
	return &Config{
		Port:               8000,
		QdrantHost:         "localhost",
		QdrantPort:         6334,
		EmbeddingModel:     "text-embedding-3-small",
		EmbeddingDimension: 1536,
		ChatModel:          "gpt-4o-mini",
		ChunkSize:          500,
		ChunkOverlap:       50,
		TopK:               5,
		MaxTokens:          500,
		Temperature:        0.2,
		HistoryPath:        "documind-history.db",
	}
}

// Load reads configuration from the given YAML file if it exists, then
// overlays environment variable overrides (DOCMIND_CHUNK_SIZE ->
// chunk_size, and so on), and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("DOCMIND_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "DOCMIND_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration. The chunk window check matters
// most: an overlap at or above the chunk size would stall the splitter's
// cursor, so it is rejected up front rather than guarded at runtime.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535, got %d", c.Port)
	}
	if c.QdrantHost == "" {
		return fmt.Errorf("qdrant_host is required")
	}
	if c.QdrantPort <= 0 {
		return fmt.Errorf("qdrant_port must be positive, got %d", c.QdrantPort)
	}
	if c.EmbeddingDimension <= 0 {
		return fmt.Errorf("embedding_dimension must be positive, got %d", c.EmbeddingDimension)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("chunk_overlap must be non-negative, got %d", c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap (%d) must be smaller than chunk_size (%d)", c.ChunkOverlap, c.ChunkSize)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", c.TopK)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be in [0, 2], got %v", c.Temperature)
	}
	if c.HistoryPath == "" {
		return fmt.Errorf("history_path is required")
	}
	return nil
}
