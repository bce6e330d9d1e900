package matching

import (
	"testing"

	"github.com/staffmatch/staffmatch/internal/geo"
	"github.com/staffmatch/staffmatch/internal/roster"
	"github.com/staffmatch/staffmatch/internal/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// coordsNorthOf offsets a point due north by the given distance, so the
// haversine distance back to it is exact.
func coordsNorthOf(home geo.Coordinates, distKM float64) *geo.Coordinates {
	const kmPerDegree = 2 * 3.14159265358979 * geo.EarthRadiusKM / 360
	return &geo.Coordinates{Lat: home.Lat + distKM/kmPerDegree, Lon: home.Lon}
}

func redirectFixture() (roster.Candidate, roster.Position) {
	home := geo.Coordinates{Lat: 48.0, Lon: 2.0}
	cand := roster.Candidate{
		ID:             "cand-1",
		Coordinates:    &home,
		Qualifications: taxonomy.NewSet(taxonomy.CAPAEPE),
	}
	current := roster.Position{
		ID:          "pos-current",
		FacilityID:  "fac-far",
		Coordinates: coordsNorthOf(home, 25),
		Required:    taxonomy.NewSet(taxonomy.CAPAEPE),
		Open:        true,
	}
	return cand, current
}

func TestFindRedirectionsClosesTheGap(t *testing.T) {
	cand, current := redirectFixture()
	alt := &roster.Position{
		ID:          "pos-near",
		FacilityID:  "fac-near",
		Coordinates: coordsNorthOf(*cand.Coordinates, 4),
		Required:    taxonomy.NewSet(taxonomy.CAPAEPE),
		Open:        true,
	}

	got := FindRedirections(
		[]Placement{{Candidate: &cand, Position: &current}},
		[]*roster.Position{&current, alt},
		RedirectOptions{},
	)
	require.Len(t, got, 1)

	r := got[0]
	assert.Equal(t, "cand-1", r.CandidateID)
	assert.Equal(t, "pos-current", r.CurrentPositionID)
	assert.Equal(t, "pos-near", r.AlternativePositionID)
	assert.Equal(t, "fac-near", r.AlternativeFacilityID)
	assert.InDelta(t, 25, r.CurrentDistanceKM, 0.05)
	assert.InDelta(t, 4, r.AlternativeDistanceKM, 0.05)
	assert.InDelta(t, 21, r.SavedKM, 0.1)
}

func TestFindRedirectionsRespectsProximityThreshold(t *testing.T) {
	cand, current := redirectFixture()
	alt := &roster.Position{
		ID:          "pos-six-km",
		Coordinates: coordsNorthOf(*cand.Coordinates, 6),
		Required:    taxonomy.NewSet(taxonomy.CAPAEPE),
		Open:        true,
	}

	got := FindRedirections(
		[]Placement{{Candidate: &cand, Position: &current}},
		[]*roster.Position{alt},
		RedirectOptions{ProximityKM: 5},
	)
	assert.Empty(t, got)

	// A wider threshold admits the same position.
	got = FindRedirections(
		[]Placement{{Candidate: &cand, Position: &current}},
		[]*roster.Position{alt},
		RedirectOptions{ProximityKM: 10},
	)
	assert.Len(t, got, 1)
}

func TestFindRedirectionsSkipsWorseAlternatives(t *testing.T) {
	home := geo.Coordinates{Lat: 48.0, Lon: 2.0}
	cand := roster.Candidate{
		ID:             "cand-1",
		Coordinates:    &home,
		Qualifications: taxonomy.NewSet(taxonomy.CAPAEPE),
	}
	// Already placed 2km from home; a 4km alternative is no improvement even
	// though it clears the proximity threshold.
	current := roster.Position{
		ID:          "pos-current",
		Coordinates: coordsNorthOf(home, 2),
		Required:    taxonomy.NewSet(taxonomy.CAPAEPE),
		Open:        true,
	}
	alt := &roster.Position{
		ID:          "pos-farther",
		Coordinates: coordsNorthOf(home, 4),
		Required:    taxonomy.NewSet(taxonomy.CAPAEPE),
		Open:        true,
	}

	got := FindRedirections(
		[]Placement{{Candidate: &cand, Position: &current}},
		[]*roster.Position{alt},
		RedirectOptions{},
	)
	assert.Empty(t, got)
}

func TestFindRedirectionsFiltersCandidates(t *testing.T) {
	cand, current := redirectFixture()

	makeAlt := func(mod func(*roster.Position)) *roster.Position {
		alt := &roster.Position{
			ID:          "pos-near",
			Coordinates: coordsNorthOf(*cand.Coordinates, 4),
			Required:    taxonomy.NewSet(taxonomy.CAPAEPE),
			Open:        true,
		}
		mod(alt)
		return alt
	}

	cases := []struct {
		name string
		alt  *roster.Position
	}{
		{"closed position", makeAlt(func(p *roster.Position) { p.Open = false })},
		{"different requirement", makeAlt(func(p *roster.Position) {
			p.Required = taxonomy.NewSet(taxonomy.DEInfirmier)
		})},
		{"no coordinates", makeAlt(func(p *roster.Position) { p.Coordinates = nil })},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := FindRedirections(
				[]Placement{{Candidate: &cand, Position: &current}},
				[]*roster.Position{tc.alt},
				RedirectOptions{},
			)
			assert.Empty(t, got)
		})
	}
}

func TestFindRedirectionsRequiresCompliance(t *testing.T) {
	cand, current := redirectFixture()
	cand.Qualifications = taxonomy.NewSet()
	alt := &roster.Position{
		ID:          "pos-near",
		Coordinates: coordsNorthOf(*cand.Coordinates, 4),
		Required:    taxonomy.NewSet(taxonomy.CAPAEPE),
		Open:        true,
	}

	got := FindRedirections(
		[]Placement{{Candidate: &cand, Position: &current}},
		[]*roster.Position{alt},
		RedirectOptions{},
	)
	assert.Empty(t, got)
}

func TestFindRedirectionsPicksClosestSurvivor(t *testing.T) {
	cand, current := redirectFixture()
	near := &roster.Position{
		ID:          "pos-2km",
		Coordinates: coordsNorthOf(*cand.Coordinates, 2),
		Required:    taxonomy.NewSet(taxonomy.CAPAEPE),
		Open:        true,
	}
	farther := &roster.Position{
		ID:          "pos-4km",
		Coordinates: coordsNorthOf(*cand.Coordinates, 4),
		Required:    taxonomy.NewSet(taxonomy.CAPAEPE),
		Open:        true,
	}

	got := FindRedirections(
		[]Placement{{Candidate: &cand, Position: &current}},
		[]*roster.Position{farther, near},
		RedirectOptions{},
	)
	require.Len(t, got, 1)
	assert.Equal(t, "pos-2km", got[0].AlternativePositionID)
}

func TestFindRedirectionsSkipsUnlocatedPlacements(t *testing.T) {
	cand, current := redirectFixture()
	cand.Coordinates = nil

	got := FindRedirections(
		[]Placement{{Candidate: &cand, Position: &current}},
		[]*roster.Position{&current},
		RedirectOptions{},
	)
	assert.Empty(t, got)
}

func TestWithinBoundingBoxNeverExcludesTrueMatches(t *testing.T) {
	home := &geo.Coordinates{Lat: 48.0, Lon: 2.0}
	const threshold = 5.0

	// Points just inside the threshold in the four cardinal directions must
	// survive the pre-filter.
	offsets := []geo.Coordinates{
		{Lat: 48.0 + 4.9/111.195, Lon: 2.0},
		{Lat: 48.0 - 4.9/111.195, Lon: 2.0},
		{Lat: 48.0, Lon: 2.0 + 4.9/(111.195*0.669)},
		{Lat: 48.0, Lon: 2.0 - 4.9/(111.195*0.669)},
	}
	for _, pos := range offsets {
		pos := pos
		dist := geo.Distance(home, &pos)
		require.NotNil(t, dist)
		require.Less(t, *dist, threshold)
		assert.True(t, withinBoundingBox(home, &pos, threshold))
	}
}
