package knn

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/DarianElwood/speedtest-analysis/src/location"
	"github.com/DarianElwood/speedtest-analysis/src/speedtest"
)

// syntheticTable builds n rows where download follows a noisy linear relation
// on ping and upload, so a neighbour model has structure to find.
func syntheticTable(n int, seed int64) speedtest.Table {
	rng := rand.New(rand.NewSource(seed))
	var t speedtest.Table
	for i := 0; i < n; i++ {
		ping := 5 + rng.Float64()*60
		upload := 2 + rng.Float64()*20
		download := 120 - ping + 2*upload + rng.NormFloat64()*3
		t.Records = append(t.Records, speedtest.Record{Ping: ping, Upload: upload, Download: download})
	}
	return t
}

func TestPredictExactMatchDominates(t *testing.T) {
	features := [][]float64{{1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5}}
	targets := []float64{10, 20, 30, 40, 50}
	model, err := Fit(features, targets, Config{K: 3, Weighted: true})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	got, err := model.Predict([]float64{3, 3})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if got != 30 {
		t.Fatalf("exact match should return its own target, got %v", got)
	}
}

func TestPredictUnweightedMean(t *testing.T) {
	features := [][]float64{{0}, {1}, {2}, {10}, {11}}
	targets := []float64{1, 2, 3, 100, 110}
	model, err := Fit(features, targets, Config{K: 3, Weighted: false})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	got, err := model.Predict([]float64{0.5})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if math.Abs(got-2) > 1e-9 { // mean of targets 1,2,3
		t.Fatalf("unweighted mean: got %v want 2", got)
	}
}

func TestPredictQueryDimensionMismatch(t *testing.T) {
	model, err := Fit([][]float64{{1, 2}, {3, 4}, {5, 6}}, []float64{1, 2, 3}, Config{K: 2})
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if _, err := model.Predict([]float64{1}); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
}

func TestFitRejectsTinyTrainingSet(t *testing.T) {
	_, err := Fit([][]float64{{1}}, []float64{1}, Config{K: 5})
	if err == nil {
		t.Fatalf("expected error fitting 1 row with k=5")
	}
}

func TestEvaluateTableReport(t *testing.T) {
	table := syntheticTable(30, 7)
	rep, err := EvaluateTable(table, speedtest.MetricDownload, DefaultConfig())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if rep.Samples != 30 || rep.TrainSize != 24 || rep.TestSize != 6 {
		t.Fatalf("unexpected split sizes: %+v", rep)
	}
	if rep.Target != "download" || rep.K != 5 {
		t.Fatalf("report metadata: %+v", rep)
	}
	if math.IsNaN(rep.RMSE) || math.IsInf(rep.RMSE, 0) || rep.RMSE < 0 {
		t.Fatalf("rmse not finite non-negative: %v", rep.RMSE)
	}
	if math.IsNaN(rep.StdDev) || rep.StdDev < 0 {
		t.Fatalf("stddev not finite non-negative: %v", rep.StdDev)
	}
}

func TestEvaluateDeterministicForSeed(t *testing.T) {
	table := syntheticTable(40, 11)
	a, err := EvaluateTable(table, speedtest.MetricUpload, DefaultConfig())
	if err != nil {
		t.Fatalf("first evaluate: %v", err)
	}
	b, err := EvaluateTable(table, speedtest.MetricUpload, DefaultConfig())
	if err != nil {
		t.Fatalf("second evaluate: %v", err)
	}
	if a != b {
		t.Fatalf("same seed produced different reports:\n%+v\n%+v", a, b)
	}
}

func TestEvaluateFiniteAcrossK(t *testing.T) {
	table := syntheticTable(50, 3)
	for k := 1; k <= 12; k++ {
		cfg := DefaultConfig()
		cfg.K = k
		rep, err := EvaluateTable(table, speedtest.MetricDownload, cfg)
		if err != nil {
			t.Fatalf("k=%d: %v", k, err)
		}
		if math.IsNaN(rep.RMSE) || math.IsInf(rep.RMSE, 0) || rep.RMSE < 0 {
			t.Fatalf("k=%d rmse invalid: %v", k, rep.RMSE)
		}
	}
}

func TestEvaluateInsufficientData(t *testing.T) {
	table := syntheticTable(4, 1)
	_, err := EvaluateTable(table, speedtest.MetricDownload, DefaultConfig())
	if !errors.Is(err, speedtest.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestEvaluateRejectsPingTarget(t *testing.T) {
	table := syntheticTable(30, 1)
	_, err := EvaluateTable(table, speedtest.MetricPing, DefaultConfig())
	if !errors.Is(err, speedtest.ErrInvalidMetric) {
		t.Fatalf("expected ErrInvalidMetric for ping target, got %v", err)
	}
}

func TestCrossValidateTable(t *testing.T) {
	table := syntheticTable(40, 5)
	rep, err := CrossValidateTable(table, speedtest.MetricDownload, DefaultConfig())
	if err != nil {
		t.Fatalf("cv: %v", err)
	}
	if rep.Folds != 5 || rep.Samples != 40 {
		t.Fatalf("cv metadata: %+v", rep)
	}
	if math.IsNaN(rep.RMSEMean) || rep.RMSEMean < 0 || math.IsNaN(rep.RMSEStd) || rep.RMSEStd < 0 {
		t.Fatalf("cv stats invalid: %+v", rep)
	}
}

func TestCrossValidateInsufficientData(t *testing.T) {
	table := syntheticTable(6, 5)
	cfg := DefaultConfig()
	cfg.Folds = 5 // leaves 4-5 training rows per fold, below k=5
	_, err := CrossValidateTable(table, speedtest.MetricDownload, cfg)
	if !errors.Is(err, speedtest.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func mustLoc(t *testing.T, name string, latDeg, lonDeg float64) location.Location {
	t.Helper()
	l, err := location.New(name, latDeg*math.Pi/180, lonDeg*math.Pi/180, 10, 50, 10)
	if err != nil {
		t.Fatalf("location %s: %v", name, err)
	}
	return l
}

func TestNearestOrdering(t *testing.T) {
	locs := []location.Location{
		mustLoc(t, "paris", 48.8566, 2.3522),
		mustLoc(t, "london", 51.5074, -0.1278),
		mustLoc(t, "newyork", 40.7128, -74.0060),
	}
	// Query from Brussels: London and Paris should both come before New York.
	got, err := Nearest(locs, 50.8503*math.Pi/180, 4.3517*math.Pi/180, 2)
	if err != nil {
		t.Fatalf("nearest: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 neighbours, got %d", len(got))
	}
	if got[0].Location.Name == "newyork" || got[1].Location.Name == "newyork" {
		t.Fatalf("new york should not be among the 2 nearest: %+v", got)
	}
	if got[0].DistanceKm > got[1].DistanceKm {
		t.Fatalf("neighbours not sorted by distance: %+v", got)
	}
}

func TestNearestClampsK(t *testing.T) {
	locs := []location.Location{mustLoc(t, "only", 0, 0)}
	got, err := Nearest(locs, 0, 0.1, 5)
	if err != nil {
		t.Fatalf("nearest: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected clamp to 1 neighbour, got %d", len(got))
	}
}

func TestNearestRejectsBadQuery(t *testing.T) {
	locs := []location.Location{mustLoc(t, "only", 0, 0)}
	if _, err := Nearest(locs, math.Pi, 0, 1); err == nil {
		t.Fatalf("expected error for off-globe query")
	}
}

func TestEvaluateLocationsHaversine(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	var locs []location.Location
	for i := 0; i < 30; i++ {
		lat := (40 + rng.Float64()*10) * math.Pi / 180
		lon := (-5 + rng.Float64()*10) * math.Pi / 180
		l, err := location.New("s", lat, lon, 10, 40+rng.Float64()*40, 5+rng.Float64()*15)
		if err != nil {
			t.Fatalf("location: %v", err)
		}
		locs = append(locs, l)
	}
	rep, err := EvaluateLocations(locs, speedtest.MetricUpload, DefaultConfig())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if rep.Samples != 30 || math.IsNaN(rep.RMSE) || rep.RMSE < 0 {
		t.Fatalf("bad report: %+v", rep)
	}
}
