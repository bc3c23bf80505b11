// Package knn implements k-nearest-neighbours regression over speedtest
// measurements, either on the metric columns themselves (predict download
// from ping+upload, or upload from ping+download) or on server coordinates
// with great-circle distances.
//
// Design notes:
//   - The model is non-parametric: Fit just retains the training set and
//     Predict averages the targets of the k nearest rows (inverse-distance
//     weighted by default, matching the reference configuration).
//   - Evaluation splits deterministically from a seed so runs are repeatable.
package knn

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/DarianElwood/speedtest-analysis/src/location"
)

// Config holds model and evaluation options. Zero values fall back to the
// defaults in DefaultConfig via normalized().
type Config struct {
	K            int     // neighbour count (default 5)
	Weighted     bool    // inverse-distance weighting of neighbour targets
	Haversine    bool    // features are lat/lon radians; use great-circle distance
	TestFraction float64 // holdout share for Evaluate (default 0.2)
	Seed         int64   // shuffle seed (default 42)
	Folds        int     // cross-validation folds (default 5)
}

// DefaultConfig mirrors the reference setup: k=5, distance weighting, 80/20
// holdout with a fixed seed, 5-fold cross-validation.
func DefaultConfig() Config {
	return Config{K: 5, Weighted: true, TestFraction: 0.2, Seed: 42, Folds: 5}
}

func (c Config) normalized() Config {
	if c.K <= 0 {
		c.K = 5
	}
	if c.TestFraction <= 0 || c.TestFraction >= 1 {
		c.TestFraction = 0.2
	}
	if c.Seed == 0 {
		c.Seed = 42
	}
	if c.Folds <= 0 {
		c.Folds = 5
	}
	return c
}

// Regressor is a fitted model. It holds references to the training data; the
// caller must not mutate the slices afterwards.
type Regressor struct {
	cfg      Config
	features [][]float64
	targets  []float64
	dist     func(a, b []float64) float64
}

// Fit builds a regressor from a feature matrix and target vector.
func Fit(features [][]float64, targets []float64, cfg Config) (*Regressor, error) {
	cfg = cfg.normalized()
	if len(features) != len(targets) {
		return nil, errors.Errorf("feature/target length mismatch: %d vs %d", len(features), len(targets))
	}
	if len(features) < cfg.K {
		return nil, errors.Errorf("need at least k=%d training rows, have %d", cfg.K, len(features))
	}
	dist := euclidean
	if cfg.Haversine {
		dist = haversine
	}
	return &Regressor{cfg: cfg, features: features, targets: targets, dist: dist}, nil
}

// Predict estimates the target for one query point.
func (r *Regressor) Predict(query []float64) (float64, error) {
	if len(query) != len(r.features[0]) {
		return 0, errors.Errorf("query has %d features, model expects %d", len(query), len(r.features[0]))
	}
	type cand struct {
		d float64
		y float64
	}
	cands := make([]cand, len(r.features))
	for i, f := range r.features {
		cands[i] = cand{d: r.dist(query, f), y: r.targets[i]}
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].d < cands[j].d })
	k := r.cfg.K
	if k > len(cands) {
		k = len(cands)
	}
	nearest := cands[:k]
	if !r.cfg.Weighted {
		sum := 0.0
		for _, c := range nearest {
			sum += c.y
		}
		return sum / float64(k), nil
	}
	// Distance weighting: exact matches dominate, so if any neighbour sits at
	// (numerically) zero distance the prediction is the mean of those alone.
	const eps = 1e-12
	var exactSum float64
	var exactN int
	for _, c := range nearest {
		if c.d < eps {
			exactSum += c.y
			exactN++
		}
	}
	if exactN > 0 {
		return exactSum / float64(exactN), nil
	}
	var wSum, wySum float64
	for _, c := range nearest {
		w := 1 / c.d
		wSum += w
		wySum += w * c.y
	}
	return wySum / wSum, nil
}

func euclidean(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return math.Sqrt(s)
}

// haversine treats feature vectors as [lat, lon] in radians.
func haversine(a, b []float64) float64 {
	return location.HaversineKm(a[0], a[1], b[0], b[1])
}
