package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	paris     = &Coordinates{Lat: 48.8566, Lon: 2.3522}
	marseille = &Coordinates{Lat: 43.2965, Lon: 5.3698}
	lyon      = &Coordinates{Lat: 45.7640, Lon: 4.8357}
)

func TestDistanceReferencePoints(t *testing.T) {
	tests := []struct {
		name     string
		from, to *Coordinates
		wantKM   float64
	}{
		{name: "paris to marseille", from: paris, to: marseille, wantKM: 661},
		{name: "paris to lyon", from: paris, to: lyon, wantKM: 392},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.from, tt.to)
			require.NotNil(t, got)
			// Reference values must match within 0.5%.
			assert.InEpsilon(t, tt.wantKM, *got, 0.005)
		})
	}
}

func TestDistanceSymmetric(t *testing.T) {
	ab := Distance(paris, marseille)
	ba := Distance(marseille, paris)
	require.NotNil(t, ab)
	require.NotNil(t, ba)
	assert.Equal(t, *ab, *ba)
}

func TestDistanceZeroOnSamePoint(t *testing.T) {
	d := Distance(paris, &Coordinates{Lat: paris.Lat, Lon: paris.Lon})
	require.NotNil(t, d)
	assert.Zero(t, *d)
}

func TestDistanceMissingCoordinates(t *testing.T) {
	assert.Nil(t, Distance(nil, marseille))
	assert.Nil(t, Distance(paris, nil))
	assert.Nil(t, Distance(nil, nil))
}

func TestExtractPostalCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bare code", input: "75011", want: "75011"},
		{name: "embedded in free text", input: "12 rue des Lilas, 69003 Lyon", want: "69003"},
		{name: "first of several", input: "75001 or 75002", want: "75001"},
		{name: "too short", input: "7501", want: ""},
		{name: "part of longer number", input: "750112", want: ""},
		{name: "missing", input: "no code here", want: ""},
		{name: "empty", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractPostalCode(tt.input))
		})
	}
}
