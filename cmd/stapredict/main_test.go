package main

import (
	"math"
	"testing"
)

func TestParseLatLon(t *testing.T) {
	lat, lon, err := parseLatLon("51.5074, -0.1278")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if math.Abs(lat-51.5074*math.Pi/180) > 1e-12 {
		t.Fatalf("lat not converted to radians: %v", lat)
	}
	if math.Abs(lon-(-0.1278)*math.Pi/180) > 1e-12 {
		t.Fatalf("lon not converted to radians: %v", lon)
	}
}

func TestParseLatLonRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "51.5", "a,b", "1,2,3"} {
		if _, _, err := parseLatLon(s); err == nil {
			t.Fatalf("expected error for %q", s)
		}
	}
}
