package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "rag_store", cfg.Server.StoreDir)
	assert.Equal(t, 500, cfg.Chunker.ChunkSize)
	assert.Equal(t, 50, cfg.Chunker.ChunkOverlap)
	assert.Equal(t, "auto", cfg.Embedder.Provider)
	assert.Equal(t, 4, cfg.Agent.TopK)
	assert.Equal(t, 10, cfg.Agent.RetrieveTimeoutSecs)
}

func TestLoadAppliesDefaultsToPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":9000"
embedder:
  provider: ollama
  model: custom-model
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "ollama", cfg.Embedder.Provider)
	assert.Equal(t, "custom-model", cfg.Embedder.Model)
	// untouched sections still get defaults
	assert.Equal(t, "rag_store", cfg.Server.StoreDir)
	assert.Equal(t, 500, cfg.Chunker.ChunkSize)
	assert.Equal(t, "http://localhost:8000", cfg.Agent.BackendURL)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(":\n  - ["), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
