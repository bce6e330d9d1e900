package matching

import (
	"math"

	"github.com/staffmatch/staffmatch/internal/compliance"
	"github.com/staffmatch/staffmatch/internal/geo"
	"github.com/staffmatch/staffmatch/internal/roster"
	"github.com/staffmatch/staffmatch/internal/taxonomy"
)

// DefaultProximityKM is the redirection proximity threshold: an alternative
// only counts when it sits strictly closer than this to the candidate's home.
const DefaultProximityKM = 5.0

// kmPerLatDegree approximates one degree of latitude; the bounding box built
// from it is widened so the pre-filter stays conservative.
const kmPerLatDegree = 111.0

// Placement links a candidate to the position they currently hold or wait on.
type Placement struct {
	Candidate *roster.Candidate
	Position  *roster.Position
}

// Redirection is a suggested reassignment to a strictly closer open position
// of the same role family. SavedKM is strictly positive by construction.
type Redirection struct {
	CandidateID           string
	CurrentPositionID     string
	CurrentFacilityID     string
	CurrentDistanceKM     float64
	AlternativePositionID string
	AlternativeFacilityID string
	AlternativeDistanceKM float64
	SavedKM               float64
}

// RedirectOptions tunes the redirection search.
type RedirectOptions struct {
	ProximityKM float64
}

// FindRedirections searches, for every placement, the open positions with the
// same role requirement for one strictly closer than both the proximity
// threshold and the candidate's current distance. The single closest survivor
// is reported. Placements with unknown coordinates or distances are skipped,
// never failed.
func FindRedirections(placements []Placement, openPositions []*roster.Position, opts RedirectOptions) []Redirection {
	if opts.ProximityKM <= 0 {
		opts.ProximityKM = DefaultProximityKM
	}

	redirections := make([]Redirection, 0)

	for _, placement := range placements {
		cand, current := placement.Candidate, placement.Position
		if cand == nil || current == nil || cand.Coordinates == nil {
			continue
		}

		baseline := geo.Distance(cand.Coordinates, current.Coordinates)
		if baseline == nil {
			continue
		}

		var best *roster.Position
		var bestDist float64

		for _, pos := range openPositions {
			if !pos.Open || pos.ID == current.ID || pos.Coordinates == nil {
				continue
			}
			if !sameRequirement(pos.Required, current.Required) {
				continue
			}
			if !withinBoundingBox(cand.Coordinates, pos.Coordinates, opts.ProximityKM) {
				continue
			}
			if !compliance.Evaluate(cand.Qualifications, pos.Required).Compliant {
				continue
			}

			dist := geo.Distance(cand.Coordinates, pos.Coordinates)
			if dist == nil || *dist >= opts.ProximityKM || *dist >= *baseline {
				continue
			}
			if best == nil || *dist < bestDist {
				best = pos
				bestDist = *dist
			}
		}

		if best != nil {
			redirections = append(redirections, Redirection{
				CandidateID:           cand.ID,
				CurrentPositionID:     current.ID,
				CurrentFacilityID:     current.FacilityID,
				CurrentDistanceKM:     *baseline,
				AlternativePositionID: best.ID,
				AlternativeFacilityID: best.FacilityID,
				AlternativeDistanceKM: bestDist,
				SavedKM:               *baseline - bestDist,
			})
		}
	}

	return redirections
}

func sameRequirement(a, b taxonomy.Set) bool {
	as, bs := a.Strings(), b.Strings()
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// withinBoundingBox is a conservative constant-degree pre-filter around the
// candidate: the latitude window carries a 1.5x margin and the longitude
// window widens by 1/cos(lat), so a true match is never excluded. It only
// saves haversine evaluations and is not part of the distance contract.
func withinBoundingBox(home, pos *geo.Coordinates, thresholdKM float64) bool {
	latWindow := thresholdKM / kmPerLatDegree * 1.5

	cosLat := math.Cos(home.Lat * math.Pi / 180)
	if cosLat < 0.1 {
		cosLat = 0.1
	}
	lonWindow := latWindow / cosLat

	return math.Abs(pos.Lat-home.Lat) <= latWindow &&
		math.Abs(pos.Lon-home.Lon) <= lonWindow
}
