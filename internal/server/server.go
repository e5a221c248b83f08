// Package server provides the HTTP REST API for dashboard generation.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/google/uuid"

	"github.com/jonathan/metricmind/internal/pipeline"
	"github.com/jonathan/metricmind/internal/rag"
	"github.com/jonathan/metricmind/internal/server/ratelimit"
	"github.com/jonathan/metricmind/internal/types"
)

// shutdownTimeout bounds graceful shutdown; in-flight generation runs can
// take a while against a local model server.
const shutdownTimeout = 30 * time.Second

// Runner executes a dashboard generation run over an initial state.
type Runner interface {
	Run(ctx context.Context, initial pipeline.State) (pipeline.State, error)
}

// DashboardStore reads persisted dashboards.
type DashboardStore interface {
	GetDashboard(ctx context.Context, id uuid.UUID) (*types.DashboardRecord, error)
	ListDashboards(ctx context.Context, limit int) ([]types.DashboardRecord, error)
}

// SimilarityIndex answers nearest-neighbor queries over dashboard summaries.
type SimilarityIndex interface {
	QuerySimilar(ctx context.Context, text string, k int) ([]rag.Hit, error)
}

// Config holds server configuration
type Config struct {
	Port int
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	runner      Runner
	store       DashboardStore
	index       SimilarityIndex
	rateLimiter *ratelimit.Limiter
	log         *slog.Logger
}

// New creates a new server instance
func New(cfg Config, runner Runner, store DashboardStore, index SimilarityIndex, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		runner:      runner,
		store:       store,
		index:       index,
		rateLimiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		log:         logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /dashboards", s.handleGenerate)
	mux.HandleFunc("GET /dashboards", s.handleListDashboards)
	mux.HandleFunc("GET /dashboards/similar", s.handleSimilar)
	mux.HandleFunc("GET /dashboards/{id}", s.handleGetDashboard)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // generation runs block on model calls
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start listens for requests until the context is cancelled or an interrupt
// arrives, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.log.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		s.rateLimiter.Stop()
		return nil
	})

	return g.Wait()
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr, "duration", time.Since(start))
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := clientAddr(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if !allowed {
			if info.RetryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(info.RetryAfter.Seconds())+1))
			}
			s.errorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientAddr extracts the client IP, without the ephemeral port.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("encoding JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
