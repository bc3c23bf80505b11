// stapredict fits a k-nearest-neighbours regressor over speedtest results
// and reports holdout and cross-validated prediction error for the chosen
// speed metric.
//
// Two feature modes:
//  1. Metric features (default): predict download from ping+upload, or
//     upload from ping+download.
//  2. Geographic features (-coords): join the workbook with a server
//     coordinates CSV and predict speeds from lat/lon with great-circle
//     distances. -nearest additionally lists the k closest servers to a
//     query point instead of evaluating.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/DarianElwood/speedtest-analysis/src/knn"
	"github.com/DarianElwood/speedtest-analysis/src/loader"
	"github.com/DarianElwood/speedtest-analysis/src/location"
	"github.com/DarianElwood/speedtest-analysis/src/speedtest"
)

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// parseLatLon parses a "lat,lon" pair in degrees and returns radians.
func parseLatLon(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("want \"lat,lon\" in degrees, got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad latitude %q", parts[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad longitude %q", parts[1])
	}
	return lat * math.Pi / 180, lon * math.Pi / 180, nil
}

func main() {
	file := flag.String("file", "speeds.xlsx", "Path to the speedtest results workbook")
	sheet := flag.String("sheet", "", "Sheet name (default: first sheet)")
	targetName := flag.String("target", "download", "Metric to predict (download|upload)")
	k := flag.Int("k", 5, "Neighbour count")
	weighted := flag.Bool("weighted", true, "Weight neighbours by inverse distance")
	testSize := flag.Float64("test-size", 0.2, "Holdout fraction for evaluation")
	seed := flag.Int64("seed", 42, "Shuffle seed (fixed for repeatable splits)")
	folds := flag.Int("folds", 5, "Cross-validation folds (0 or 1 disables CV)")
	coords := flag.String("coords", "", "Optional server coordinates CSV; switches to geographic features")
	nearest := flag.String("nearest", "", "Report the k nearest servers to \"lat,lon\" (degrees); requires -coords")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()
	speedtest.SetLogLevel(*logLevel)

	target, err := speedtest.ParseMetric(*targetName)
	if err != nil {
		fail(err)
	}
	cfg := knn.Config{K: *k, Weighted: *weighted, TestFraction: *testSize, Seed: *seed, Folds: *folds}

	table, err := loader.LoadWorkbook(*file, *sheet)
	if err != nil {
		fail(err)
	}

	var locs []location.Location
	if *coords != "" {
		cs, err := loader.LoadCoords(*coords)
		if err != nil {
			fail(err)
		}
		locs, err = loader.JoinLocations(table, cs)
		if err != nil {
			fail(err)
		}
	}

	if *nearest != "" {
		if *coords == "" {
			fail(fmt.Errorf("-nearest requires -coords"))
		}
		lat, lon, err := parseLatLon(*nearest)
		if err != nil {
			fail(err)
		}
		neighbours, err := knn.Nearest(locs, lat, lon, *k)
		if err != nil {
			fail(err)
		}
		fmt.Printf("%d nearest servers to %s:\n", len(neighbours), *nearest)
		for i, nb := range neighbours {
			fmt.Printf("%2d. %-20s %8.1f km  down=%.1f Mbps up=%.1f Mbps ping=%.1f ms\n",
				i+1, nb.Location.Name, nb.DistanceKm, nb.Location.Download, nb.Location.Upload, nb.Location.Ping)
		}
		return
	}

	var rep knn.Report
	if locs != nil {
		rep, err = knn.EvaluateLocations(locs, target, cfg)
	} else {
		rep, err = knn.EvaluateTable(table, target, cfg)
	}
	if err != nil {
		fail(err)
	}
	fmt.Printf("target: %s (k=%d, weighted=%v)\n", rep.Target, rep.K, *weighted)
	fmt.Printf("samples: %d (train=%d, test=%d)\n", rep.Samples, rep.TrainSize, rep.TestSize)
	fmt.Printf("holdout RMSE: %.3f\n", rep.RMSE)
	fmt.Printf("error stddev: %.3f\n", rep.StdDev)

	if *folds > 1 {
		var cv knn.CVReport
		if locs != nil {
			cv, err = knn.CrossValidateLocations(locs, target, cfg)
		} else {
			cv, err = knn.CrossValidateTable(table, target, cfg)
		}
		if err != nil {
			fail(err)
		}
		fmt.Printf("%d-fold CV RMSE: %.3f ± %.3f\n", cv.Folds, cv.RMSEMean, cv.RMSEStd)
	}
}
