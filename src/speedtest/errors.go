package speedtest

import "errors"

// Error kinds shared across the loader, plotter and regression packages.
// All of them are terminal for the current run: callers report and exit
// non-zero, nothing retries. Match with errors.Is.
var (
	// ErrInvalidMetric marks a metric name outside {ping, download, upload}.
	ErrInvalidMetric = errors.New("invalid metric")
	// ErrSameMetric marks a plot request naming the same metric for both axes.
	ErrSameMetric = errors.New("x and y metrics must differ")
	// ErrMissingColumn marks a workbook lacking a required header column.
	ErrMissingColumn = errors.New("missing required column")
	// ErrEmptyData marks an operation on a table with no rows. A plot must
	// fail loudly rather than render a blank chart.
	ErrEmptyData = errors.New("no data rows")
	// ErrInsufficientData marks a table too small for a valid train/test split.
	ErrInsufficientData = errors.New("insufficient data")
)
