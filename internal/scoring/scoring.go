package scoring

import (
	"math"

	"github.com/staffmatch/staffmatch/internal/compliance"
	"github.com/staffmatch/staffmatch/internal/roster"
)

// Recommendation is the action label derived from the final score.
type Recommendation string

const (
	RecommendImmediate Recommendation = "immediate"
	RecommendReview    Recommendation = "review"
	RecommendHold      Recommendation = "hold"
)

// Inputs are the per-pair factors feeding one aggregation.
type Inputs struct {
	// DistanceKM is nil when either location is unknown.
	DistanceKM *float64
	Urgency    roster.Urgency
	Compliance compliance.Result
	// Quality is the external 0-100 signal; nil means no signal and counts
	// as zero, not as a skipped factor.
	Quality *float64
}

// Breakdown holds the four component scores and the weighted final score,
// all on the profile's output scale.
type Breakdown struct {
	Distance       float64
	Urgency        float64
	Compliance     float64
	Quality        float64
	Final          float64
	Recommendation Recommendation
}

// DistanceScore maps a distance onto the profile's step bands. An unknown
// distance scores zero: an unknown location is penalized, not ignored.
func (p *Profile) DistanceScore(km *float64) float64 {
	if km == nil {
		return 0
	}
	for _, band := range p.DistanceBands {
		if *km < band.MaxKM {
			return band.Score
		}
	}
	return 0
}

// UrgencyScore maps the urgency level to its component score. Unknown
// urgency gets the low default, never zero.
func (p *Profile) UrgencyScore(u roster.Urgency) float64 {
	switch u {
	case roster.UrgencyHigh:
		return p.UrgencyScores.High
	case roster.UrgencyMedium:
		return p.UrgencyScores.Medium
	default:
		return p.UrgencyScores.Low
	}
}

// QualityScore clamps the external signal into the canonical range; a
// missing signal is zero.
func (p *Profile) QualityScore(q *float64) float64 {
	if q == nil {
		return 0
	}
	return math.Min(100, math.Max(0, *q))
}

// Aggregate computes the weighted final score and recommendation for one
// candidate/position pair. When compliance strength sits below the penalty
// floor the final score is capped at the penalty ceiling: qualification gates
// the pair rather than just contributing a fourth additive factor.
func (p *Profile) Aggregate(in Inputs) Breakdown {
	distance := p.DistanceScore(in.DistanceKM)
	urgency := p.UrgencyScore(in.Urgency)
	strength := in.Compliance.Strength
	qual := p.QualityScore(in.Quality)

	final := p.Weights.Distance*distance +
		p.Weights.Urgency*urgency +
		p.Weights.Compliance*strength +
		p.Weights.Quality*qual

	if strength < p.PenaltyFloor {
		final = math.Min(final, p.PenaltyCeiling)
	}

	scaled := Breakdown{
		Distance:   p.rescale(distance),
		Urgency:    p.rescale(urgency),
		Compliance: p.rescale(strength),
		Quality:    p.rescale(qual),
		Final:      p.rescale(final),
	}
	scaled.Recommendation = p.Recommend(scaled.Final)
	return scaled
}

// Recommend thresholds a final score (on the output scale) into the three
// action bands.
func (p *Profile) Recommend(final float64) Recommendation {
	switch {
	case final >= p.Thresholds.Immediate:
		return RecommendImmediate
	case final >= p.Thresholds.Review:
		return RecommendReview
	default:
		return RecommendHold
	}
}

func (p *Profile) rescale(canonical float64) float64 {
	return canonical * p.Scale / 100
}
