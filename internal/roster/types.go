// Package roster holds the candidate, position and facility records supplied
// by the external persistence layer, plus the dataset loader.
package roster

import (
	"strings"

	"github.com/staffmatch/staffmatch/internal/geo"
	"github.com/staffmatch/staffmatch/internal/quality"
	"github.com/staffmatch/staffmatch/internal/taxonomy"
)

// Urgency classifies how critically a position needs staffing. The order of
// the constants is the ranking order.
type Urgency int

const (
	UrgencyUnknown Urgency = iota
	UrgencyLow
	UrgencyMedium
	UrgencyHigh
)

func (u Urgency) String() string {
	switch u {
	case UrgencyHigh:
		return "high"
	case UrgencyMedium:
		return "medium"
	case UrgencyLow:
		return "low"
	default:
		return "unknown"
	}
}

// ParseUrgency accepts level names and the legacy facility color labels used
// by upstream exports.
func ParseUrgency(s string) Urgency {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "rouge", "red":
		return UrgencyHigh
	case "medium", "orange":
		return UrgencyMedium
	case "low", "verte", "vert", "green":
		return UrgencyLow
	default:
		return UrgencyUnknown
	}
}

// Candidate is a job seeker. Coordinates stay nil until geocoded;
// Qualifications is derived from RawQualifications by the taxonomy normalizer
// and is recomputed whenever the raw text changes, never hand-edited.
type Candidate struct {
	ID                string
	PostalCode        string
	Coordinates       *geo.Coordinates
	RawQualifications []string
	Qualifications    taxonomy.Set
	Summary           string
	Quality           *quality.Assessment
	// AppliedPositionID links the candidate to the position they currently
	// hold or wait on, when the upstream export knows it.
	AppliedPositionID string
}

// QualityScore returns the externally supplied quality signal, or nil when no
// assessment exists (treated downstream as zero, not as a skipped factor).
func (c *Candidate) QualityScore() *float64 {
	if c.Quality == nil || c.Quality.Error != "" {
		return nil
	}
	score := c.Quality.Score
	return &score
}

// Position is a job opening at a facility. A closed position is excluded
// from all matching and redirection computations.
type Position struct {
	ID          string
	FacilityID  string
	Title       string
	PostalCode  string
	Coordinates *geo.Coordinates
	// Required is the qualification gate; empty means no strict requirement.
	Required taxonomy.Set
	Urgency  Urgency
	Open     bool
}

// Facility is a staffed location.
type Facility struct {
	ID          string
	Name        string
	PostalCode  string
	Coordinates *geo.Coordinates
}

// AggregateUrgency is the maximum urgency over the facility's open positions.
func (f *Facility) AggregateUrgency(positions []*Position) Urgency {
	max := UrgencyUnknown
	for _, p := range positions {
		if !p.Open || p.FacilityID != f.ID {
			continue
		}
		if p.Urgency > max {
			max = p.Urgency
		}
	}
	return max
}

// Dataset is one batch of records flowing through the engine.
type Dataset struct {
	Candidates []*Candidate
	Positions  []*Position
	Facilities []*Facility
}

// OpenPositions filters out closed positions.
func (d *Dataset) OpenPositions() []*Position {
	open := make([]*Position, 0, len(d.Positions))
	for _, p := range d.Positions {
		if p.Open {
			open = append(open, p)
		}
	}
	return open
}

// FacilityByID returns the facility with the given id, or nil.
func (d *Dataset) FacilityByID(id string) *Facility {
	for _, f := range d.Facilities {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// PositionByID returns the position with the given id, or nil.
func (d *Dataset) PositionByID(id string) *Position {
	for _, p := range d.Positions {
		if p.ID == id {
			return p
		}
	}
	return nil
}
