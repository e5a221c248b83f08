package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/metricmind/internal/db"
	"github.com/jonathan/metricmind/internal/pipeline"
	"github.com/jonathan/metricmind/internal/rag"
	"github.com/jonathan/metricmind/internal/summarize"
	"github.com/jonathan/metricmind/internal/types"
)

const (
	defaultListLimit  = 20
	defaultSimilarK   = 3
	maxRequestBodyLen = 10 << 20 // 10 MiB of CSV is plenty
)

// GenerateRequest represents the request body for POST /dashboards
type GenerateRequest struct {
	Context string `json:"context"`
	CSV     string `json:"csv,omitempty"`
}

// GenerateResponse represents the response for POST /dashboards
type GenerateResponse struct {
	DashboardID    string                `json:"dashboard_id"`
	KPIs           []types.KPIDefinition `json:"kpis"`
	Visualizations []types.ChartSpec     `json:"visualizations"`
	Anomalies      []string              `json:"anomalies,omitempty"`
	Narrative      string                `json:"narrative"`
}

// SimilarResponse represents the response for GET /dashboards/similar
type SimilarResponse struct {
	Query   string    `json:"query"`
	Results []rag.Hit `json:"results"`
}

// handleGenerate runs a full generation pipeline and returns the persisted
// dashboard.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeJSON(http.MaxBytesReader(w, r.Body, maxRequestBodyLen), &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	// An absent context is allowed; the prompt-driven stages degrade on it.
	initial := pipeline.State{Context: req.Context}
	if req.CSV != "" {
		summary := summarize.Summarize(req.CSV)
		initial.Schema = summary.Schema
		initial.DataSummary = summary.Stats
		initial.SampleRows = summary.SampleRows
	}

	final, err := s.runner.Run(r.Context(), initial)
	if err != nil {
		s.log.Error("generation run failed", "error", err)
		s.errorResponse(w, httpStatus(err), "Generation failed: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, GenerateResponse{
		DashboardID:    final.DashboardID,
		KPIs:           final.KPIs,
		Visualizations: final.Visualizations,
		Anomalies:      final.Anomalies,
		Narrative:      final.Narrative,
	})
}

// handleGetDashboard returns one persisted dashboard by ID.
func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid dashboard ID format")
		return
	}

	record, err := s.store.GetDashboard(r.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Dashboard not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, record)
}

// handleListDashboards returns recent dashboards, newest first.
func (s *Server) handleListDashboards(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := s.store.ListDashboards(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if records == nil {
		records = []types.DashboardRecord{}
	}

	s.jsonResponse(w, http.StatusOK, records)
}

// handleSimilar returns dashboards whose summaries are nearest to the query.
func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.errorResponse(w, http.StatusBadRequest, "q is required")
		return
	}

	k := defaultSimilarK
	if v := r.URL.Query().Get("k"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.errorResponse(w, http.StatusBadRequest, "k must be a positive integer")
			return
		}
		k = n
	}

	hits, err := s.index.QuerySimilar(r.Context(), query, k)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Similarity query failed: "+err.Error())
		return
	}
	if hits == nil {
		hits = []rag.Hit{}
	}

	s.jsonResponse(w, http.StatusOK, SimilarResponse{Query: query, Results: hits})
}
