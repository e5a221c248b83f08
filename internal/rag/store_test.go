package rag

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/philippgille/chromem-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/metricmind/internal/types"
)

// stubEmbedding embeds text as a normalized bag-of-words vector over a tiny
// fixed vocabulary, so similarity is driven by shared words alone.
func stubEmbedding() chromem.EmbeddingFunc {
	vocab := []string{"sales", "marketing", "inventory", "revenue"}
	return func(_ context.Context, text string) ([]float32, error) {
		vec := make([]float32, len(vocab)+1)
		lower := strings.ToLower(text)
		for i, word := range vocab {
			if strings.Contains(lower, word) {
				vec[i] = 1
			}
		}
		// Texts with no vocabulary hit still get a nonzero vector.
		vec[len(vocab)] = 0.1

		var norm float64
		for _, v := range vec {
			norm += float64(v) * float64(v)
		}
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
		return vec, nil
	}
}

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := OpenWithEmbedding(path, stubEmbedding())
	require.NoError(t, err)
	return store
}

func TestStore_QueryReturnsUpsertedDocument(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, t.TempDir())

	salesDoc := BuildDocument("sales data", []types.KPIDefinition{{Name: "Total Revenue"}}, nil)
	require.NoError(t, store.Upsert(ctx, "id-sales", salesDoc,
		map[string]string{"dashboard_id": "id-sales", "context": "sales data"}))

	marketingDoc := BuildDocument("marketing spend", []types.KPIDefinition{{Name: "CAC"}}, nil)
	require.NoError(t, store.Upsert(ctx, "id-marketing", marketingDoc,
		map[string]string{"dashboard_id": "id-marketing", "context": "marketing spend"}))

	hits, err := store.QuerySimilar(ctx, "sales data", 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)

	// The dashboard indexed under the same context ranks first.
	assert.Equal(t, "id-sales", hits[0].ID)
	assert.Equal(t, "sales data", hits[0].Metadata["context"])
	assert.Contains(t, hits[0].Document, "Total Revenue")
	assert.Greater(t, hits[0].Similarity, hits[1].Similarity)
}

func TestStore_QueryClampsKToCollectionSize(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, t.TempDir())

	doc := BuildDocument("sales data", nil, nil)
	require.NoError(t, store.Upsert(ctx, "id-1", doc, map[string]string{"context": "sales data"}))

	hits, err := store.QuerySimilar(ctx, "sales data", 10)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestStore_QueryEmptyCollection(t *testing.T) {
	store := openTestStore(t, t.TempDir())

	hits, err := store.QuerySimilar(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestStore_UpsertReplacesSameID(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t, t.TempDir())

	require.NoError(t, store.Upsert(ctx, "id-1", "Context: sales data\nKPIs: Old\nVisualizations: ",
		map[string]string{"context": "sales data"}))
	require.NoError(t, store.Upsert(ctx, "id-1", "Context: sales data\nKPIs: New\nVisualizations: ",
		map[string]string{"context": "sales data"}))

	hits, err := store.QuerySimilar(ctx, "sales data", 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Contains(t, hits[0].Document, "New")
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir()

	store := openTestStore(t, path)
	doc := BuildDocument("inventory turnover", nil, nil)
	require.NoError(t, store.Upsert(ctx, "id-1", doc, map[string]string{"context": "inventory turnover"}))

	reopened := openTestStore(t, path)
	hits, err := reopened.QuerySimilar(ctx, "inventory turnover", 1)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "id-1", hits[0].ID)
}

func TestBuildDocument(t *testing.T) {
	kpis := []types.KPIDefinition{
		{Name: "Total Revenue"},
		{Name: "Conversion Rate"},
	}
	specs := []types.ChartSpec{
		{Title: "Total Revenue Overview"},
		{Title: "Conversion Rate Overview"},
	}

	doc := BuildDocument("ecommerce sales", kpis, specs)

	assert.Equal(t,
		"Context: ecommerce sales\nKPIs: Total Revenue, Conversion Rate\nVisualizations: Total Revenue Overview, Conversion Rate Overview",
		doc)
}

func TestBuildDocument_Empty(t *testing.T) {
	doc := BuildDocument("ctx", nil, nil)
	assert.Equal(t, "Context: ctx\nKPIs: \nVisualizations: ", doc)
}
