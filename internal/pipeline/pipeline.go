// Package pipeline runs the enrichment steps that take raw roster records to
// fully scored inputs: geocoding, qualification normalization and quality
// extraction.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/staffmatch/staffmatch/internal/geo"
	"github.com/staffmatch/staffmatch/internal/quality"
	"github.com/staffmatch/staffmatch/internal/roster"
	"go.uber.org/zap"
)

// Step represents a single enrichment step applied to the dataset in place.
type Step interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, ds *roster.Dataset) (Stats, error)
}

// Deps aggregates dependencies shared across all pipeline steps.
type Deps struct {
	Resolver  *geo.Resolver
	Extractor quality.Extractor
	Logger    *zap.Logger
}

// Stats describes the result of executing one step. A skipped record is one
// the step could not enrich; it stays in the batch with its degraded value.
type Stats struct {
	Total    int
	Enriched int
	Skipped  int
}

// Config contains configuration settings consumed by the steps.
type Config struct {
	Quality *QualityConfig
}

// QualityConfig stores AI quality-extraction configuration.
type QualityConfig struct {
	Enabled  bool
	Provider string
	Gemini   *GeminiConfig
}

// GeminiConfig stores Gemini provider configuration.
type GeminiConfig struct {
	Model        string
	MaxLogLength int
}

// DisableByName marks a step with the provided name as disabled while keeping
// it in the list.
func DisableByName(steps []Step, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied steps sequentially against the dataset. Steps
// degrade per record; the only fatal conditions are validation failures
// caught before the first step runs. Every log line carries the run id so a
// batch can be traced end to end.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Step, ds *roster.Dataset) error {
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	runID := uuid.NewString()
	logger := deps.Logger
	if logger != nil {
		logger = logger.With(zap.String("run_id", runID))
		deps.Logger = logger
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			if logger != nil {
				logger.Info("pipeline step disabled", zap.String("name", step.Name()))
			}
			continue
		}

		stats, err := step.Apply(ctx, deps, ds)
		if err != nil {
			return fmt.Errorf("%s: %w", step.Name(), err)
		}

		if logger != nil {
			logger.Info("pipeline step",
				zap.String("name", step.Name()),
				zap.Int("total", stats.Total),
				zap.Int("enriched", stats.Enriched),
				zap.Int("skipped", stats.Skipped),
			)
		}
	}

	return nil
}
