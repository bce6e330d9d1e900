// Package matching computes, ranks and redirects candidate/position pairs.
package matching

import (
	"github.com/google/uuid"
	"github.com/staffmatch/staffmatch/internal/compliance"
	"github.com/staffmatch/staffmatch/internal/geo"
	"github.com/staffmatch/staffmatch/internal/roster"
	"github.com/staffmatch/staffmatch/internal/scoring"
)

// Match is one computed candidate/position pairing. Matches are ephemeral:
// they are produced on demand, handed to the presentation layer and
// discarded, never persisted.
type Match struct {
	ID          string
	CandidateID string
	PositionID  string
	FacilityID  string
	// DistanceKM is nil when either side lacks coordinates.
	DistanceKM *float64
	Compliant  bool
	Urgency    roster.Urgency
	Scores     scoring.Breakdown
}

// Compute scores the full cross-product of candidates and open positions.
// Closed positions are excluded. Pairs are independent of each other, so the
// order of evaluation carries no meaning.
func Compute(profile *scoring.Profile, candidates []*roster.Candidate, positions []*roster.Position) []*Match {
	matches := make([]*Match, 0, len(candidates)*len(positions))

	for _, cand := range candidates {
		for _, pos := range positions {
			if !pos.Open {
				continue
			}

			dist := geo.Distance(cand.Coordinates, pos.Coordinates)
			comp := compliance.Evaluate(cand.Qualifications, pos.Required)

			breakdown := profile.Aggregate(scoring.Inputs{
				DistanceKM: dist,
				Urgency:    pos.Urgency,
				Compliance: comp,
				Quality:    cand.QualityScore(),
			})

			matches = append(matches, &Match{
				ID:          uuid.NewString(),
				CandidateID: cand.ID,
				PositionID:  pos.ID,
				FacilityID:  pos.FacilityID,
				DistanceKM:  dist,
				Compliant:   comp.Compliant,
				Urgency:     pos.Urgency,
				Scores:      breakdown,
			})
		}
	}

	return matches
}
