// Package location models speedtest server geography. Coordinates are kept
// in radians end to end, matching the coords CSV, so haversine math never
// needs a conversion step.
package location

import (
	"math"

	"github.com/pkg/errors"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// Location ties a named speedtest server to its coordinates and the
// measurements taken against it.
type Location struct {
	Name      string
	Latitude  float64 // radians
	Longitude float64 // radians
	Ping      float64 // ms
	Download  float64 // Mbps
	Upload    float64 // Mbps
}

// New validates coordinates and builds a Location.
func New(name string, latRad, lonRad, ping, download, upload float64) (Location, error) {
	if !ValidCoordinate(latRad, lonRad) {
		return Location{}, errors.Errorf("invalid coordinates for %q: lat=%v lon=%v (radians)", name, latRad, lonRad)
	}
	return Location{Name: name, Latitude: latRad, Longitude: lonRad, Ping: ping, Download: download, Upload: upload}, nil
}

// ValidCoordinate reports whether a lat/lon pair (radians) is on the globe.
func ValidCoordinate(latRad, lonRad float64) bool {
	return latRad >= -math.Pi/2 && latRad <= math.Pi/2 &&
		lonRad >= -math.Pi && lonRad <= math.Pi
}

// HaversineKm returns the great-circle distance in km from this location to
// the given point (radians).
func (l Location) HaversineKm(latRad, lonRad float64) float64 {
	return HaversineKm(l.Latitude, l.Longitude, latRad, lonRad)
}

// HaversineKm computes the great-circle distance in km between two points
// given in radians.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dlat := lat2 - lat1
	dlon := lon2 - lon1
	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	return EarthRadiusKm * 2 * math.Asin(math.Sqrt(a))
}
