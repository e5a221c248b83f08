package llm

import (
	"context"
	"fmt"
)

// Message is one turn of a chat request sent to the gateway.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is the gateway contract consumed by the pipeline stages: one
// stateless chat completion per call, no internal retry.
type Client interface {
	// Chat sends the ordered messages to the model serving the given tier
	// and returns the raw text completion.
	Chat(ctx context.Context, messages []Message, tier ModelTier) (string, error)
	// Close releases any resources held by the client.
	Close() error
}

// NewClient creates a gateway client for the configured provider.
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config)
	case ProviderOllama, "":
		return NewOllamaClient(config), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", config.Provider)
	}
}
