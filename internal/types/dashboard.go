package types

import (
	"time"

	"github.com/google/uuid"
)

// DashboardPayload is the serialized body of one generated dashboard, stored
// as a single JSON document alongside the record.
type DashboardPayload struct {
	KPIs           []KPIDefinition `json:"kpis"`
	Visualizations []ChartSpec     `json:"visualizations"`
	Narrative      string          `json:"narrative"`
}

// DashboardRecord is the persisted form of one pipeline run. Records are
// created exactly once and never updated.
type DashboardRecord struct {
	ID        uuid.UUID        `json:"id"`
	Context   string           `json:"context"`
	CreatedAt time.Time        `json:"created_at"`
	Data      DashboardPayload `json:"data"`
}
