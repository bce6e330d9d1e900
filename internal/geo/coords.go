package geo

import (
	"math"
	"regexp"
)

// EarthRadiusKM is the mean earth radius used by the haversine formula.
const EarthRadiusKM = 6371.0

// Coordinates is a latitude/longitude pair in decimal degrees. A nil
// *Coordinates means the location is unknown.
type Coordinates struct {
	Lat float64
	Lon float64
}

var postalCodeRe = regexp.MustCompile(`\b\d{5}\b`)

// ExtractPostalCode pulls the first 5-digit postal code out of free text.
// It returns an empty string when no code is present; a missing code is
// routine missing data, not an error.
func ExtractPostalCode(text string) string {
	return postalCodeRe.FindString(text)
}

// Distance computes the great-circle distance in kilometers between two
// points. It returns nil when either point is unknown so callers must branch
// on missing locations explicitly instead of treating them as zero.
func Distance(a, b *Coordinates) *float64 {
	if a == nil || b == nil {
		return nil
	}

	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	km := 2 * EarthRadiusKM * math.Asin(math.Sqrt(h))
	return &km
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
