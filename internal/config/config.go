// Package config provides configuration loading and validation for the CLI
// and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/metricmind/internal/llm"
)

// Config is the application configuration. It can be loaded from a JSON file;
// missing values fall back to environment variables and then defaults.
type Config struct {
	// Stores
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	VectorPath  string `json:"vector_path,omitempty"`  // Directory for the persistent vector store

	// Gateway
	Provider     string `json:"provider,omitempty"`      // "ollama" (default) or "gemini"
	OllamaURL    string `json:"ollama_url,omitempty"`    // Base URL of the Ollama-compatible server
	GeminiAPIKey string `json:"gemini_api_key,omitempty"`
	CoderModel   string `json:"coder_model,omitempty"` // Model for structured extraction
	ChatModel    string `json:"chat_model,omitempty"`  // Model for narrative generation
	EmbedModel   string `json:"embed_model,omitempty"` // Model for vector embeddings

	// Server
	Port int `json:"port,omitempty"`
}

// Load reads configuration from a JSON file. An empty path yields a config
// built purely from environment variables and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setIfEmpty(&c.DatabaseURL, os.Getenv("DATABASE_URL"))
	setIfEmpty(&c.VectorPath, os.Getenv("METRICMIND_VECTOR_PATH"))
	setIfEmpty(&c.Provider, os.Getenv("METRICMIND_LLM_PROVIDER"))
	setIfEmpty(&c.OllamaURL, os.Getenv("OLLAMA_BASE_URL"))
	setIfEmpty(&c.GeminiAPIKey, os.Getenv("GEMINI_API_KEY"))
	setIfEmpty(&c.CoderModel, os.Getenv("METRICMIND_CODER_MODEL"))
	setIfEmpty(&c.ChatModel, os.Getenv("METRICMIND_CHAT_MODEL"))
	setIfEmpty(&c.EmbedModel, os.Getenv("METRICMIND_EMBED_MODEL"))
}

func (c *Config) applyDefaults() {
	base := llm.DefaultConfig()
	setIfEmpty(&c.Provider, string(base.Provider))
	setIfEmpty(&c.OllamaURL, base.BaseURL)
	setIfEmpty(&c.CoderModel, base.Models[llm.TierCoder])
	setIfEmpty(&c.ChatModel, base.Models[llm.TierChat])
	setIfEmpty(&c.VectorPath, filepath.Join(os.TempDir(), "metricmind-vectors"))
	if c.Port == 0 {
		c.Port = 8080
	}
}

// LLMConfig translates the application config into the gateway config.
func (c *Config) LLMConfig() *llm.Config {
	return &llm.Config{
		Provider: llm.Provider(c.Provider),
		BaseURL:  c.OllamaURL,
		APIKey:   c.GeminiAPIKey,
		Models: map[llm.ModelTier]string{
			llm.TierCoder: c.CoderModel,
			llm.TierChat:  c.ChatModel,
		},
	}
}

func setIfEmpty(dst *string, value string) {
	if *dst == "" && value != "" {
		*dst = value
	}
}
