package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds settings for the retrieval backend HTTP server.
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	StoreDir string `yaml:"store_dir"`
}

// ChunkerConfig configures how extracted text is split into chunks.
type ChunkerConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
}

// EmbedderConfig selects and configures the embedding provider.
// Provider "auto" tries gemini, then openai, then ollama, taking the
// first one whose credentials are available.
type EmbedderConfig struct {
	Provider    string `yaml:"provider"`
	Model       string `yaml:"model"`
	BaseURL     string `yaml:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// AgentConfig holds settings for the voice-session agent side.
type AgentConfig struct {
	BackendURL          string `yaml:"backend_url"`
	TopK                int    `yaml:"top_k"`
	RetrieveTimeoutSecs int    `yaml:"retrieve_timeout_secs"`
	LLMModel            string `yaml:"llm_model"`
}

// WatchConfig enables the optional auto-ingesting directory watcher.
// An empty Dir disables watching.
type WatchConfig struct {
	Dir string `yaml:"dir"`
}

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Chunker  ChunkerConfig  `yaml:"chunker"`
	Embedder EmbedderConfig `yaml:"embedder"`
	Agent    AgentConfig    `yaml:"agent"`
	Watch    WatchConfig    `yaml:"watch"`
}

// Load reads the config from path. A missing file is not an error; defaults
// are returned so the server can run with zero configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func defaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if cfg.Server.StoreDir == "" {
		cfg.Server.StoreDir = "rag_store"
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 500
	}
	if cfg.Chunker.ChunkOverlap == 0 {
		cfg.Chunker.ChunkOverlap = 50
	}
	if cfg.Embedder.Provider == "" {
		cfg.Embedder.Provider = "auto"
	}
	if cfg.Embedder.TimeoutSecs == 0 {
		cfg.Embedder.TimeoutSecs = 30
	}
	if cfg.Agent.BackendURL == "" {
		cfg.Agent.BackendURL = "http://localhost:8000"
	}
	if cfg.Agent.TopK == 0 {
		cfg.Agent.TopK = 4
	}
	if cfg.Agent.RetrieveTimeoutSecs == 0 {
		cfg.Agent.RetrieveTimeoutSecs = 10
	}
	if cfg.Agent.LLMModel == "" {
		cfg.Agent.LLMModel = "gemini-2.5-flash"
	}
}
