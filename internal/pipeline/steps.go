package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/staffmatch/staffmatch/internal/quality"
	"github.com/staffmatch/staffmatch/internal/roster"
	"github.com/staffmatch/staffmatch/internal/taxonomy"
	"go.uber.org/zap"
)

type geocodeStep struct{}

// NewGeocode creates the step that attaches coordinates to every record with
// a usable postal code.
func NewGeocode() Step {
	return &geocodeStep{}
}

func (s *geocodeStep) Name() string { return "geocode" }

func (s *geocodeStep) Disable(string) {}

func (s *geocodeStep) IsEnabled() bool { return true }

func (s *geocodeStep) Validate(*Config) error { return nil }

// Apply deduplicates every postal code in the batch, resolves them in one
// pass and attaches the coordinates. Positions without their own code inherit
// the facility's location. Unresolvable codes leave coordinates nil.
func (s *geocodeStep) Apply(ctx context.Context, deps Deps, ds *roster.Dataset) (Stats, error) {
	if deps.Resolver == nil {
		return Stats{}, fmt.Errorf("geocode resolver is required")
	}

	codes := make([]string, 0, len(ds.Candidates)+len(ds.Positions)+len(ds.Facilities))
	for _, c := range ds.Candidates {
		codes = append(codes, c.PostalCode)
	}
	for _, p := range ds.Positions {
		codes = append(codes, p.PostalCode)
	}
	for _, f := range ds.Facilities {
		codes = append(codes, f.PostalCode)
	}

	resolved := deps.Resolver.ResolveAll(ctx, codes)

	stats := Stats{Total: len(ds.Candidates) + len(ds.Positions) + len(ds.Facilities)}

	for _, c := range ds.Candidates {
		if coords, ok := resolved[c.PostalCode]; ok {
			c.Coordinates = coords
			stats.Enriched++
			continue
		}
		stats.Skipped++
	}

	for _, f := range ds.Facilities {
		if coords, ok := resolved[f.PostalCode]; ok {
			f.Coordinates = coords
			stats.Enriched++
			continue
		}
		stats.Skipped++
	}

	for _, p := range ds.Positions {
		if coords, ok := resolved[p.PostalCode]; ok {
			p.Coordinates = coords
			stats.Enriched++
			continue
		}
		if facility := ds.FacilityByID(p.FacilityID); facility != nil && facility.Coordinates != nil {
			p.Coordinates = facility.Coordinates
			stats.Enriched++
			continue
		}
		stats.Skipped++
	}

	return stats, nil
}

type qualifyStep struct{}

// NewQualify creates the step that recomputes normalized qualification sets
// from raw text. The normalized set is derived data only; this step is the
// single writer.
func NewQualify() Step {
	return &qualifyStep{}
}

func (s *qualifyStep) Name() string { return "qualify" }

func (s *qualifyStep) Disable(string) {}

func (s *qualifyStep) IsEnabled() bool { return true }

func (s *qualifyStep) Validate(*Config) error { return nil }

func (s *qualifyStep) Apply(_ context.Context, deps Deps, ds *roster.Dataset) (Stats, error) {
	stats := Stats{Total: len(ds.Candidates)}

	for _, c := range ds.Candidates {
		c.Qualifications = taxonomy.Normalize(c.RawQualifications...)
		if c.Qualifications.Empty() {
			stats.Skipped++
			if deps.Logger != nil && len(c.RawQualifications) > 0 {
				deps.Logger.Debug("no taxonomy match for candidate qualifications",
					zap.String("candidate_id", c.ID),
					zap.Strings("raw", c.RawQualifications),
				)
			}
			continue
		}
		stats.Enriched++
	}

	return stats, nil
}

type qualityStep struct {
	disabled bool
	reason   string
}

// NewQuality creates the AI quality-extraction step.
func NewQuality() Step {
	return &qualityStep{}
}

func (s *qualityStep) Name() string { return "quality" }

func (s *qualityStep) Disable(reason string) {
	s.disabled = true
	s.reason = reason
}

func (s *qualityStep) IsEnabled() bool { return !s.disabled }

func (s *qualityStep) Validate(cfg *Config) error {
	if !s.IsEnabled() {
		return nil
	}
	if cfg == nil || cfg.Quality == nil || !cfg.Quality.Enabled {
		return nil
	}
	if cfg.Quality.Gemini == nil {
		return fmt.Errorf("gemini configuration is required when quality extraction is enabled")
	}
	if strings.TrimSpace(cfg.Quality.Gemini.Model) == "" {
		return fmt.Errorf("gemini model is required when quality extraction is enabled")
	}
	return nil
}

// Apply extracts a quality assessment for every candidate with a summary. An
// extraction failure flags that candidate and the run continues; one
// unassessable record never blocks the rest.
func (s *qualityStep) Apply(ctx context.Context, deps Deps, ds *roster.Dataset) (Stats, error) {
	stats := Stats{Total: len(ds.Candidates)}

	if deps.Extractor == nil {
		if deps.Logger != nil {
			deps.Logger.Info("quality extractor is not configured; skipping quality step")
		}
		stats.Skipped = stats.Total
		return stats, nil
	}

	for _, c := range ds.Candidates {
		if strings.TrimSpace(c.Summary) == "" {
			stats.Skipped++
			continue
		}
		if c.Quality != nil && c.Quality.Error == "" {
			stats.Enriched++
			continue
		}

		assessment, err := deps.Extractor.Extract(ctx, c.ID, c.Summary)
		if err != nil {
			if deps.Logger != nil {
				deps.Logger.Warn("quality extraction failed",
					zap.String("candidate_id", c.ID),
					zap.Error(err),
				)
			}
			c.Quality = &quality.Assessment{Error: err.Error()}
			stats.Skipped++
			continue
		}

		c.Quality = assessment
		stats.Enriched++
	}

	return stats, nil
}
