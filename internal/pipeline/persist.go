package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/metricmind/internal/rag"
	"github.com/jonathan/metricmind/internal/types"
)

// RelationalStore is the dashboard record sink. Identifier assignment is
// delegated to the store and must be unique per insert.
type RelationalStore interface {
	InsertDashboard(ctx context.Context, dashContext string, payload types.DashboardPayload) (uuid.UUID, error)
}

// VectorIndex is the similarity-retrieval sink.
type VectorIndex interface {
	Upsert(ctx context.Context, id, document string, metadata map[string]string) error
}

// persistStage performs the two sequential, independently-failable writes.
// They are not transactional: a vector failure after a successful insert
// leaves an orphaned relational record and still fails the run.
func persistStage(store RelationalStore, index VectorIndex) func(ctx context.Context, view State) (Patch, error) {
	return func(ctx context.Context, view State) (Patch, error) {
		id, err := store.InsertDashboard(ctx, view.Context, types.DashboardPayload{
			KPIs:           view.KPIs,
			Visualizations: view.Visualizations,
			Narrative:      view.Narrative,
		})
		if err != nil {
			return nil, fmt.Errorf("relational write failed: %w", err)
		}

		document := rag.BuildDocument(view.Context, view.KPIs, view.Visualizations)
		metadata := map[string]string{
			"dashboard_id": id.String(),
			"context":      view.Context,
		}
		if err := index.Upsert(ctx, id.String(), document, metadata); err != nil {
			return nil, fmt.Errorf("vector write failed for dashboard %s: %w", id, err)
		}

		return Patch{FieldDashboardID: id.String()}, nil
	}
}
