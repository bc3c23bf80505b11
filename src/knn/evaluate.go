package knn

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"github.com/DarianElwood/speedtest-analysis/src/location"
	"github.com/DarianElwood/speedtest-analysis/src/speedtest"
)

// Report summarizes a holdout evaluation.
type Report struct {
	Target    string
	Samples   int
	TrainSize int
	TestSize  int
	K         int
	RMSE      float64
	StdDev    float64 // standard deviation of absolute per-sample errors
}

// CVReport summarizes k-fold cross-validation.
type CVReport struct {
	Target   string
	Samples  int
	Folds    int
	RMSEMean float64
	RMSEStd  float64
}

// FeaturesForTarget splits a table into the feature matrix and target vector
// for the given target metric. The features are ping plus the non-target
// speed metric; only download and upload are valid targets.
func FeaturesForTarget(table speedtest.Table, target speedtest.Metric) ([][]float64, []float64, error) {
	var other speedtest.Metric
	switch target {
	case speedtest.MetricDownload:
		other = speedtest.MetricUpload
	case speedtest.MetricUpload:
		other = speedtest.MetricDownload
	default:
		return nil, nil, fmt.Errorf("%w: regression target must be download or upload, got %q", speedtest.ErrInvalidMetric, target)
	}
	features := make([][]float64, 0, table.Len())
	targets := make([]float64, 0, table.Len())
	for _, r := range table.Records {
		features = append(features, []float64{speedtest.MetricPing.Value(r), other.Value(r)})
		targets = append(targets, target.Value(r))
	}
	return features, targets, nil
}

// EvaluateTable runs a holdout evaluation predicting the target metric from
// the table's remaining metrics.
func EvaluateTable(table speedtest.Table, target speedtest.Metric, cfg Config) (Report, error) {
	cfg.Haversine = false
	features, targets, err := FeaturesForTarget(table, target)
	if err != nil {
		return Report{}, err
	}
	rep, err := evaluate(features, targets, cfg)
	rep.Target = target.String()
	return rep, err
}

// EvaluateLocations runs a holdout evaluation predicting the target metric
// from server coordinates, using great-circle distances.
func EvaluateLocations(locs []location.Location, target speedtest.Metric, cfg Config) (Report, error) {
	features, targets, err := locationFeatures(locs, target)
	if err != nil {
		return Report{}, err
	}
	cfg.Haversine = true
	rep, err := evaluate(features, targets, cfg)
	rep.Target = target.String()
	return rep, err
}

func locationFeatures(locs []location.Location, target speedtest.Metric) ([][]float64, []float64, error) {
	features := make([][]float64, 0, len(locs))
	targets := make([]float64, 0, len(locs))
	for _, l := range locs {
		features = append(features, []float64{l.Latitude, l.Longitude})
		switch target {
		case speedtest.MetricDownload:
			targets = append(targets, l.Download)
		case speedtest.MetricUpload:
			targets = append(targets, l.Upload)
		default:
			return nil, nil, fmt.Errorf("%w: regression target must be download or upload, got %q", speedtest.ErrInvalidMetric, target)
		}
	}
	return features, targets, nil
}

func evaluate(features [][]float64, targets []float64, cfg Config) (Report, error) {
	defer speedtest.TimeTrack(time.Now(), "knn evaluate")
	cfg = cfg.normalized()
	n := len(features)
	if n < cfg.K+2 {
		return Report{}, errors.Wrapf(speedtest.ErrInsufficientData, "have %d rows, need at least k+2=%d", n, cfg.K+2)
	}
	perm := rand.New(rand.NewSource(cfg.Seed)).Perm(n)
	testN := int(math.Round(cfg.TestFraction * float64(n)))
	if testN < 1 {
		testN = 1
	}
	if testN > n-cfg.K {
		testN = n - cfg.K
	}
	testIdx := perm[:testN]
	trainIdx := perm[testN:]
	rmse, absErrs, err := holdoutRMSE(features, targets, trainIdx, testIdx, cfg)
	if err != nil {
		return Report{}, err
	}
	sd, err := stats.StandardDeviation(absErrs)
	if err != nil {
		return Report{}, errors.Wrap(err, "error stddev")
	}
	speedtest.Infof("knn holdout: n=%d train=%d test=%d k=%d rmse=%.3f sd=%.3f",
		n, len(trainIdx), len(testIdx), cfg.K, rmse, sd)
	return Report{
		Samples:   n,
		TrainSize: len(trainIdx),
		TestSize:  len(testIdx),
		K:         cfg.K,
		RMSE:      rmse,
		StdDev:    sd,
	}, nil
}

func holdoutRMSE(features [][]float64, targets []float64, trainIdx, testIdx []int, cfg Config) (float64, []float64, error) {
	trainF := make([][]float64, 0, len(trainIdx))
	trainY := make([]float64, 0, len(trainIdx))
	for _, i := range trainIdx {
		trainF = append(trainF, features[i])
		trainY = append(trainY, targets[i])
	}
	model, err := Fit(trainF, trainY, cfg)
	if err != nil {
		return 0, nil, err
	}
	var sqSum float64
	absErrs := make([]float64, 0, len(testIdx))
	for _, i := range testIdx {
		pred, err := model.Predict(features[i])
		if err != nil {
			return 0, nil, err
		}
		e := pred - targets[i]
		sqSum += e * e
		absErrs = append(absErrs, math.Abs(e))
	}
	return math.Sqrt(sqSum / float64(len(testIdx))), absErrs, nil
}

// CrossValidateTable computes k-fold cross-validated RMSE for the target
// metric, reporting mean and standard deviation across folds.
func CrossValidateTable(table speedtest.Table, target speedtest.Metric, cfg Config) (CVReport, error) {
	cfg.Haversine = false
	features, targets, err := FeaturesForTarget(table, target)
	if err != nil {
		return CVReport{}, err
	}
	rep, err := crossValidate(features, targets, cfg)
	rep.Target = target.String()
	return rep, err
}

// CrossValidateLocations is the coordinate-feature variant of
// CrossValidateTable.
func CrossValidateLocations(locs []location.Location, target speedtest.Metric, cfg Config) (CVReport, error) {
	features, targets, err := locationFeatures(locs, target)
	if err != nil {
		return CVReport{}, err
	}
	cfg.Haversine = true
	rep, err := crossValidate(features, targets, cfg)
	rep.Target = target.String()
	return rep, err
}

func crossValidate(features [][]float64, targets []float64, cfg Config) (CVReport, error) {
	cfg = cfg.normalized()
	n := len(features)
	if cfg.Folds < 2 {
		return CVReport{}, errors.Errorf("need at least 2 folds, got %d", cfg.Folds)
	}
	// Every fold's training partition must still hold k rows.
	maxFold := (n + cfg.Folds - 1) / cfg.Folds
	if n < cfg.Folds || n-maxFold < cfg.K {
		return CVReport{}, errors.Wrapf(speedtest.ErrInsufficientData, "have %d rows for %d-fold cv with k=%d", n, cfg.Folds, cfg.K)
	}
	perm := rand.New(rand.NewSource(cfg.Seed)).Perm(n)
	foldRMSEs := make([]float64, 0, cfg.Folds)
	for f := 0; f < cfg.Folds; f++ {
		lo := f * n / cfg.Folds
		hi := (f + 1) * n / cfg.Folds
		testIdx := perm[lo:hi]
		trainIdx := make([]int, 0, n-len(testIdx))
		trainIdx = append(trainIdx, perm[:lo]...)
		trainIdx = append(trainIdx, perm[hi:]...)
		rmse, _, err := holdoutRMSE(features, targets, trainIdx, testIdx, cfg)
		if err != nil {
			return CVReport{}, errors.Wrapf(err, "fold %d", f+1)
		}
		foldRMSEs = append(foldRMSEs, rmse)
	}
	mean, err := stats.Mean(foldRMSEs)
	if err != nil {
		return CVReport{}, errors.Wrap(err, "cv mean")
	}
	sd, err := stats.StandardDeviation(foldRMSEs)
	if err != nil {
		return CVReport{}, errors.Wrap(err, "cv stddev")
	}
	speedtest.Infof("knn cv: n=%d folds=%d k=%d rmse=%.3f±%.3f", n, cfg.Folds, cfg.K, mean, sd)
	return CVReport{Samples: n, Folds: cfg.Folds, RMSEMean: mean, RMSEStd: sd}, nil
}
