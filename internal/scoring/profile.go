// Package scoring combines distance, urgency, compliance and quality into one
// weighted score and derives the recommended action.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-playground/validator/v10"
)

// Weights splits the final score across the four factors. They must sum to 1.
type Weights struct {
	Distance   float64 `mapstructure:"distance" validate:"gte=0,lte=1"`
	Urgency    float64 `mapstructure:"urgency" validate:"gte=0,lte=1"`
	Compliance float64 `mapstructure:"compliance" validate:"gte=0,lte=1"`
	Quality    float64 `mapstructure:"quality" validate:"gte=0,lte=1"`
}

// DistanceBand scores every distance strictly below MaxKM that no tighter
// band already covered. Distances beyond the outermost band score zero.
type DistanceBand struct {
	MaxKM float64 `mapstructure:"max_km" validate:"gt=0"`
	Score float64 `mapstructure:"score" validate:"gte=0,lte=100"`
}

// UrgencyScores maps urgency levels to component scores on the canonical
// 0-100 scale. Unknown urgency falls back to Low, which must stay above zero:
// a non-urgent opening is still an opening.
type UrgencyScores struct {
	High   float64 `mapstructure:"high" validate:"gte=0,lte=100"`
	Medium float64 `mapstructure:"medium" validate:"gte=0,lte=100"`
	Low    float64 `mapstructure:"low" validate:"gt=0,lte=100"`
}

// Thresholds split the final score into recommendation bands. They are
// expressed on the profile's output scale.
type Thresholds struct {
	Immediate float64 `mapstructure:"immediate" validate:"gt=0"`
	Review    float64 `mapstructure:"review" validate:"gt=0"`
}

// Profile is one named scoring configuration: weights, output scale,
// thresholds and the tunable heuristics. All internal math runs on the
// canonical 0-100 scale; Scale rescales outputs only, so aggregation behaves
// identically across profiles.
type Profile struct {
	Name          string         `mapstructure:"name"`
	Scale         float64        `mapstructure:"scale" validate:"eq=10|eq=100"`
	Weights       Weights        `mapstructure:"weights"`
	DistanceBands []DistanceBand `mapstructure:"distance_bands" validate:"min=1,dive"`
	UrgencyScores UrgencyScores  `mapstructure:"urgency_scores"`
	// PenaltyFloor and PenaltyCeiling implement the hard penalty rule: a
	// compliance strength below the floor caps the final score at the
	// ceiling (both on the canonical 0-100 scale).
	PenaltyFloor   float64    `mapstructure:"penalty_floor" validate:"gte=0,lte=100"`
	PenaltyCeiling float64    `mapstructure:"penalty_ceiling" validate:"gte=0,lte=100"`
	Thresholds     Thresholds `mapstructure:"thresholds"`
}

// DefaultProfile is the reference weighting: distance 0.3, urgency 0.3,
// compliance 0.2, quality 0.2 on the 0-100 scale.
func DefaultProfile() *Profile {
	return &Profile{
		Name:  "default",
		Scale: 100,
		Weights: Weights{
			Distance:   0.3,
			Urgency:    0.3,
			Compliance: 0.2,
			Quality:    0.2,
		},
		DistanceBands: []DistanceBand{
			{MaxKM: 3, Score: 100},
			{MaxKM: 10, Score: 80},
			{MaxKM: 20, Score: 50},
		},
		UrgencyScores: UrgencyScores{
			High:   100,
			Medium: 70,
			Low:    30,
		},
		PenaltyFloor:   50,
		PenaltyCeiling: 25,
		Thresholds: Thresholds{
			Immediate: 75,
			Review:    50,
		},
	}
}

var validate = validator.New()

// Validate checks the profile's structural constraints plus the invariants
// the validator tags cannot express: weights summing to 1, distance bands
// strictly widening, threshold order and threshold range on the output scale.
func (p *Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("scoring profile %q: %w", p.Name, err)
	}

	sum := p.Weights.Distance + p.Weights.Urgency + p.Weights.Compliance + p.Weights.Quality
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("scoring profile %q: weights sum to %v, want 1", p.Name, sum)
	}

	if !sort.SliceIsSorted(p.DistanceBands, func(i, j int) bool {
		return p.DistanceBands[i].MaxKM < p.DistanceBands[j].MaxKM
	}) {
		return fmt.Errorf("scoring profile %q: distance bands must widen monotonically", p.Name)
	}

	if p.Thresholds.Immediate <= p.Thresholds.Review {
		return fmt.Errorf("scoring profile %q: immediate threshold must exceed review threshold", p.Name)
	}
	if p.Thresholds.Immediate > p.Scale {
		return fmt.Errorf("scoring profile %q: immediate threshold exceeds scale %v", p.Name, p.Scale)
	}

	return nil
}
