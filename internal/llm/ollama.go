package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// OllamaClient implements Client against an Ollama-compatible chat endpoint.
type OllamaClient struct {
	baseURL string
	config  *Config
	http    *http.Client
}

// NewOllamaClient creates a client for the configured base URL.
func NewOllamaClient(config *Config) *OllamaClient {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = DefaultConfig().BaseURL
	}
	return &OllamaClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		config:  config,
		http:    &http.Client{Timeout: defaultRequestTimeout},
	}
}

type ollamaChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type ollamaChatResponse struct {
	Message Message `json:"message"`
}

// Chat sends one chat completion request and returns the model's reply text.
func (c *OllamaClient) Chat(ctx context.Context, messages []Message, tier ModelTier) (string, error) {
	model := c.config.GetModel(tier)
	if model == "" {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}

	body, err := json.Marshal(ollamaChatRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", &GatewayError{Message: "chat request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &GatewayError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("model server returned %s: %s", resp.Status, strings.TrimSpace(string(detail))),
		}
	}

	var parsed ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &GatewayError{Message: "failed to decode chat response", Cause: err}
	}

	slog.Debug("gateway call completed",
		"provider", ProviderOllama,
		"model", model,
		"duration", time.Since(start),
		"responseLen", len(parsed.Message.Content))

	return parsed.Message.Content, nil
}

// Close is a no-op; the underlying HTTP client holds no per-call state.
func (c *OllamaClient) Close() error {
	return nil
}
