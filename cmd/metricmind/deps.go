package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonathan/metricmind/internal/config"
	"github.com/jonathan/metricmind/internal/db"
	"github.com/jonathan/metricmind/internal/llm"
	"github.com/jonathan/metricmind/internal/pipeline"
	"github.com/jonathan/metricmind/internal/rag"
)

// appDeps bundles the collaborators a command needs, with a single Close.
type appDeps struct {
	cfg      *config.Config
	client   llm.Client
	database *db.DB
	index    *rag.Store
	engine   *pipeline.Engine
}

// buildDeps loads configuration and connects the model gateway, the
// relational store and the vector index. DATABASE_URL is required because
// every generation run ends in a persisted dashboard.
func buildDeps(ctx context.Context, configPath string) (*appDeps, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	client, err := llm.NewClient(ctx, cfg.LLMConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		_ = client.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	index, err := rag.Open(cfg.VectorPath, cfg.OllamaURL, cfg.EmbedModel)
	if err != nil {
		database.Close()
		_ = client.Close()
		return nil, fmt.Errorf("failed to open vector index: %w", err)
	}

	engine := pipeline.New(pipeline.Deps{
		LLM:    client,
		Store:  database,
		Index:  index,
		Logger: slog.Default(),
	})

	return &appDeps{
		cfg:      cfg,
		client:   client,
		database: database,
		index:    index,
		engine:   engine,
	}, nil
}

func (d *appDeps) Close() {
	d.database.Close()
	if err := d.client.Close(); err != nil {
		slog.Warn("closing model client", "error", err)
	}
}
