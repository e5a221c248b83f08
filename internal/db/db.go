// Package db provides PostgreSQL access for dashboard record storage.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/metricmind/internal/types"
)

// ErrNotFound is returned when a dashboard record does not exist.
var ErrNotFound = errors.New("dashboard not found")

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the dashboards table if it does not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS dashboards (
			id         uuid PRIMARY KEY DEFAULT gen_random_uuid(),
			context    text NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now(),
			data       jsonb NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// InsertDashboard creates one dashboard record and returns its generated
// identifier. Records are never updated afterwards.
func (db *DB) InsertDashboard(ctx context.Context, dashContext string, payload types.DashboardPayload) (uuid.UUID, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal dashboard payload: %w", err)
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO dashboards (context, data) VALUES ($1, $2) RETURNING id`,
		dashContext, data,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert dashboard: %w", err)
	}
	return id, nil
}

// GetDashboard retrieves one dashboard record by identifier.
func (db *DB) GetDashboard(ctx context.Context, id uuid.UUID) (*types.DashboardRecord, error) {
	var record types.DashboardRecord
	var data []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, context, created_at, data FROM dashboards WHERE id = $1`,
		id,
	).Scan(&record.ID, &record.Context, &record.CreatedAt, &data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get dashboard %s: %w", id, err)
	}

	if err := json.Unmarshal(data, &record.Data); err != nil {
		return nil, fmt.Errorf("failed to decode dashboard %s payload: %w", id, err)
	}
	return &record, nil
}

// ListDashboards returns the most recent dashboard records, newest first.
func (db *DB) ListDashboards(ctx context.Context, limit int) ([]types.DashboardRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, context, created_at, data FROM dashboards ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list dashboards: %w", err)
	}
	defer rows.Close()

	var records []types.DashboardRecord
	for rows.Next() {
		var record types.DashboardRecord
		var data []byte
		if err := rows.Scan(&record.ID, &record.Context, &record.CreatedAt, &data); err != nil {
			return nil, fmt.Errorf("failed to scan dashboard row: %w", err)
		}
		if err := json.Unmarshal(data, &record.Data); err != nil {
			return nil, fmt.Errorf("failed to decode dashboard %s payload: %w", record.ID, err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
