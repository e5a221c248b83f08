// Package rag provides the vector index used to retrieve past dashboards by
// context similarity. Documents are embedded locally through the model
// server's embedding endpoint and persisted on disk.
package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/philippgille/chromem-go"

	"github.com/jonathan/metricmind/internal/types"
)

const collectionName = "dashboards"

// DefaultEmbedModel is the embedding model requested from the model server.
const DefaultEmbedModel = "nomic-embed-text"

// Store wraps one persistent vector collection of dashboard documents.
type Store struct {
	collection *chromem.Collection
}

// Open creates or opens the persistent vector store at path. Embeddings are
// produced by the Ollama-compatible server at ollamaBaseURL.
func Open(path, ollamaBaseURL, embedModel string) (*Store, error) {
	if embedModel == "" {
		embedModel = DefaultEmbedModel
	}
	var embed chromem.EmbeddingFunc
	if ollamaBaseURL != "" {
		embed = chromem.NewEmbeddingFuncOllama(embedModel, strings.TrimSuffix(ollamaBaseURL, "/")+"/api")
	} else {
		embed = chromem.NewEmbeddingFuncOllama(embedModel, "")
	}

	return OpenWithEmbedding(path, embed)
}

// OpenWithEmbedding creates or opens the persistent vector store at path
// with a caller-supplied embedding function.
func OpenWithEmbedding(path string, embed chromem.EmbeddingFunc) (*Store, error) {
	database, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store at %s: %w", path, err)
	}

	collection, err := database.GetOrCreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("failed to open collection %s: %w", collectionName, err)
	}

	return &Store{collection: collection}, nil
}

// Upsert stores one document keyed by id, replacing any previous document
// with the same id.
func (s *Store) Upsert(ctx context.Context, id, document string, metadata map[string]string) error {
	err := s.collection.AddDocument(ctx, chromem.Document{
		ID:       id,
		Content:  document,
		Metadata: metadata,
	})
	if err != nil {
		return fmt.Errorf("failed to index document %s: %w", id, err)
	}
	return nil
}

// Hit is one similarity search result.
type Hit struct {
	ID         string            `json:"id"`
	Document   string            `json:"document"`
	Metadata   map[string]string `json:"metadata"`
	Similarity float32           `json:"similarity"`
}

// QuerySimilar returns up to k documents ranked by similarity to text.
func (s *Store) QuerySimilar(ctx context.Context, text string, k int) ([]Hit, error) {
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k <= 0 || k > count {
		k = count
	}

	results, err := s.collection.Query(ctx, text, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("similarity query failed: %w", err)
	}

	hits := make([]Hit, 0, len(results))
	for _, res := range results {
		hits = append(hits, Hit{
			ID:         res.ID,
			Document:   res.Content,
			Metadata:   res.Metadata,
			Similarity: res.Similarity,
		})
	}
	return hits, nil
}

// BuildDocument produces the text representation of one dashboard that gets
// embedded for later similarity retrieval.
func BuildDocument(dashContext string, kpis []types.KPIDefinition, specs []types.ChartSpec) string {
	names := make([]string, 0, len(kpis))
	for _, kpi := range kpis {
		names = append(names, kpi.Name)
	}
	titles := make([]string, 0, len(specs))
	for _, spec := range specs {
		titles = append(titles, spec.Title)
	}

	return fmt.Sprintf("Context: %s\nKPIs: %s\nVisualizations: %s",
		dashContext, strings.Join(names, ", "), strings.Join(titles, ", "))
}
