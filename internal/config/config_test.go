package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, 500, cfg.ChunkSize)
	assert.Equal(t, 50, cfg.ChunkOverlap)
	assert.Equal(t, 5, cfg.TopK)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, 1536, cfg.EmbeddingDimension)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "documind.yml")
	require.NoError(t, os.WriteFile(path, []byte("chunk_size: 300\nchunk_overlap: 30\ntop_k: 3\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 300, cfg.ChunkSize)
	assert.Equal(t, 30, cfg.ChunkOverlap)
	assert.Equal(t, 3, cfg.TopK)
	// Unset keys keep their defaults.
	assert.Equal(t, 8000, cfg.Port)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "documind.yml")
	require.NoError(t, os.WriteFile(path, []byte("chunk_size: 300\n"), 0o644))
	t.Setenv("DOCMIND_CHUNK_SIZE", "250")
	t.Setenv("DOCMIND_QDRANT_HOST", "qdrant.internal")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.ChunkSize)
	assert.Equal(t, "qdrant.internal", cfg.QdrantHost)
}

func TestValidate_RejectsStallingWindow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkOverlap = cfg.ChunkSize
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk_overlap")

	cfg.ChunkOverlap = cfg.ChunkSize + 10
	require.Error(t, cfg.Validate())
}

func TestValidate_Bounds(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero port", func(c *Config) { c.Port = 0 }},
		{"empty qdrant host", func(c *Config) { c.QdrantHost = "" }},
		{"zero dimension", func(c *Config) { c.EmbeddingDimension = 0 }},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }},
		{"negative overlap", func(c *Config) { c.ChunkOverlap = -1 }},
		{"zero top_k", func(c *Config) { c.TopK = 0 }},
		{"zero max_tokens", func(c *Config) { c.MaxTokens = 0 }},
		{"negative temperature", func(c *Config) { c.Temperature = -0.1 }},
		{"empty history path", func(c *Config) { c.HistoryPath = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
