package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonathan/metricmind/internal/anomaly"
	"github.com/jonathan/metricmind/internal/kpi"
	"github.com/jonathan/metricmind/internal/llm"
	"github.com/jonathan/metricmind/internal/narrative"
	"github.com/jonathan/metricmind/internal/viz"
)

// Stage is one pipeline step: it reads a view of the accumulated state and
// returns a partial patch. Stages never mutate the view.
type Stage struct {
	Name string
	Run  func(ctx context.Context, view State) (Patch, error)
}

// Deps holds the external collaborators the stages need.
type Deps struct {
	LLM      llm.Client
	Detector anomaly.Detector
	Store    RelationalStore
	Index    VectorIndex
	Logger   *slog.Logger
}

// Engine owns the stage order and the state merge. One Engine may serve
// concurrent runs; each run owns an independent state.
type Engine struct {
	stages []Stage
	log    *slog.Logger
}

// New builds the engine with the fixed stage order: extract_kpis, visualize,
// detect_anomalies, narrate, persist.
func New(deps Deps) *Engine {
	if deps.Detector == nil {
		deps.Detector = anomaly.NewIsolationForest()
	}
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	stages := []Stage{
		{
			Name: "extract_kpis",
			Run: func(ctx context.Context, view State) (Patch, error) {
				kpis, err := kpi.Extract(ctx, deps.LLM, kpi.Input{
					Schema:      view.Schema,
					Context:     view.Context,
					DataSummary: view.DataSummary,
				})
				if err != nil {
					return nil, err
				}
				return Patch{FieldKPIs: kpis}, nil
			},
		},
		{
			Name: "visualize",
			Run: func(_ context.Context, view State) (Patch, error) {
				return Patch{FieldVisualizations: viz.Map(view.KPIs, view.SampleRows)}, nil
			},
		},
		{
			Name: "detect_anomalies",
			Run: func(_ context.Context, view State) (Patch, error) {
				return Patch{FieldAnomalies: anomaly.Evaluate(view.SampleRows, deps.Detector)}, nil
			},
		},
		{
			Name: "narrate",
			Run: func(ctx context.Context, view State) (Patch, error) {
				text, err := narrative.Generate(ctx, deps.LLM, narrative.Input{
					KPIs:      view.KPIs,
					Context:   view.Context,
					Anomalies: view.Anomalies,
				})
				if err != nil {
					return nil, err
				}
				return Patch{FieldNarrative: text}, nil
			},
		},
		{
			Name: "persist",
			Run:  persistStage(deps.Store, deps.Index),
		},
	}

	return &Engine{stages: stages, log: log}
}

// Run executes every stage in order against an accumulator initialized from
// initial. Stages run strictly sequentially; each always runs, writing at
// least a semantic no-op value. The first stage error aborts the run.
func (e *Engine) Run(ctx context.Context, initial State) (State, error) {
	acc := initial
	for _, stage := range e.stages {
		start := time.Now()

		patch, err := stage.Run(ctx, acc)
		if err != nil {
			return acc, fmt.Errorf("stage %s: %w", stage.Name, err)
		}
		if err := acc.Apply(patch); err != nil {
			return acc, fmt.Errorf("stage %s: %w", stage.Name, err)
		}

		e.log.Debug("stage completed",
			"stage", stage.Name,
			"duration", time.Since(start))
	}
	return acc, nil
}
