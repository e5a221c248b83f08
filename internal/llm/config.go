// Package llm provides the language-model gateway used by the pipeline's
// prompt-driven stages. It abstracts over providers and selects a model per
// task tier.
package llm

import "time"

// ModelTier selects a model by the kind of work a stage needs from it.
type ModelTier string

const (
	// TierCoder is for structured extraction that benefits from
	// code-generation capability (KPI formulas, JSON output).
	TierCoder ModelTier = "coder"
	// TierChat is for free-text generation (narratives, summaries).
	TierChat ModelTier = "chat"
)

// Provider identifies a gateway backend.
type Provider string

const (
	// ProviderOllama talks to a self-hosted Ollama-compatible chat server.
	ProviderOllama Provider = "ollama"
	// ProviderGemini talks to the Google Gemini API.
	ProviderGemini Provider = "gemini"
)

// defaultRequestTimeout bounds a single gateway call. The engine itself does
// not observe cancellation mid-pipeline; this is the client's own deadline.
const defaultRequestTimeout = 120 * time.Second

// Config holds gateway configuration: which provider to use, where to reach
// it, and which model serves each tier.
type Config struct {
	Provider Provider
	BaseURL  string
	APIKey   string
	Models   map[ModelTier]string
}

// DefaultConfig returns the default Ollama configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderOllama,
		BaseURL:  "http://localhost:11434",
		Models: map[ModelTier]string{
			TierCoder: "qwen2.5-coder:3b",
			TierChat:  "llama3.2:3b",
		},
	}
}

// GetModel returns the model name for a tier, falling back to the chat model.
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok && model != "" {
		return model
	}
	if model, ok := c.Models[TierChat]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy of the config with one tier's model overridden.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := &Config{
		Provider: c.Provider,
		BaseURL:  c.BaseURL,
		APIKey:   c.APIKey,
		Models:   make(map[ModelTier]string, len(c.Models)),
	}
	for k, v := range c.Models {
		out.Models[k] = v
	}
	out.Models[tier] = model
	return out
}
