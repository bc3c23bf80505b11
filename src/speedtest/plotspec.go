package speedtest

import "fmt"

// PlotSpec selects the two scatter axes plus the implied third metric used to
// annotate each point. Invariant: X != Y and Annotation is always the one
// metric not chosen for an axis.
type PlotSpec struct {
	X          Metric
	Y          Metric
	Annotation Metric
}

// NewPlotSpec validates the two axis metric names and derives the annotation
// metric. Errors identify which argument was bad.
func NewPlotSpec(xName, yName string) (PlotSpec, error) {
	x, err := ParseMetric(xName)
	if err != nil {
		return PlotSpec{}, fmt.Errorf("x-axis: %w", err)
	}
	y, err := ParseMetric(yName)
	if err != nil {
		return PlotSpec{}, fmt.Errorf("y-axis: %w", err)
	}
	if x == y {
		return PlotSpec{}, fmt.Errorf("%w (got %q twice)", ErrSameMetric, x)
	}
	// The three metric values sum to a fixed total, so the leftover metric
	// falls out by subtraction.
	ann := MetricPing + MetricDownload + MetricUpload - x - y
	return PlotSpec{X: x, Y: y, Annotation: ann}, nil
}
