package loader

import (
	"os"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/DarianElwood/speedtest-analysis/src/location"
	"github.com/DarianElwood/speedtest-analysis/src/speedtest"
)

// ServerCoord is one row of the server coordinates CSV. Coordinates are
// already in radians in the source data.
type ServerCoord struct {
	Server    string  `csv:"Server"`
	Latitude  float64 `csv:"Latitude (radians)"`
	Longitude float64 `csv:"Longitude (radians)"`
}

// LoadCoords reads the server coordinates CSV.
func LoadCoords(path string) ([]ServerCoord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open coords %s", path)
	}
	defer f.Close()
	var coords []ServerCoord
	if err := gocsv.UnmarshalFile(f, &coords); err != nil {
		return nil, errors.Wrapf(err, "parse coords %s", path)
	}
	speedtest.Infof("loaded %d server coordinates from %s", len(coords), path)
	return coords, nil
}

// JoinLocations merges measurement records with server coordinates by server
// name. Records whose server has no coordinates (or no server label at all)
// are skipped, matching the source data where not every server is geocoded.
func JoinLocations(table speedtest.Table, coords []ServerCoord) ([]location.Location, error) {
	byServer := make(map[string]ServerCoord, len(coords))
	for _, c := range coords {
		byServer[c.Server] = c
	}
	var locs []location.Location
	skipped := 0
	for _, r := range table.Records {
		c, ok := byServer[r.Server]
		if r.Server == "" || !ok {
			skipped++
			continue
		}
		loc, err := location.New(r.Server, c.Latitude, c.Longitude, r.Ping, r.Download, r.Upload)
		if err != nil {
			return nil, errors.Wrapf(err, "server %q", r.Server)
		}
		locs = append(locs, loc)
	}
	if skipped > 0 {
		speedtest.Debugf("join: skipped %d records without coordinates", skipped)
	}
	return locs, nil
}
