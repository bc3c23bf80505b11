package knn

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/DarianElwood/speedtest-analysis/src/location"
)

// Neighbour pairs a server location with its distance from a query point.
type Neighbour struct {
	Location   location.Location
	DistanceKm float64
}

// Nearest returns the k closest servers to the given point (radians), sorted
// by ascending great-circle distance. k is clamped to the number of servers.
func Nearest(locs []location.Location, latRad, lonRad float64, k int) ([]Neighbour, error) {
	if len(locs) == 0 {
		return nil, errors.New("no server locations")
	}
	if !location.ValidCoordinate(latRad, lonRad) {
		return nil, errors.Errorf("invalid query coordinates: lat=%v lon=%v (radians)", latRad, lonRad)
	}
	if k <= 0 {
		k = 5
	}
	out := make([]Neighbour, len(locs))
	for i, l := range locs {
		out[i] = Neighbour{Location: l, DistanceKm: l.HaversineKm(latRad, lonRad)}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceKm < out[j].DistanceKm })
	if k > len(out) {
		k = len(out)
	}
	return out[:k], nil
}
