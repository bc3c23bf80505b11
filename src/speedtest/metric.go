package speedtest

import (
	"fmt"
	"strings"
)

// Metric identifies one of the three measured quantities. The set is closed:
// every CLI surface and plot axis resolves to one of these values, so
// downstream code never branches on raw metric strings.
type Metric int

const (
	MetricPing Metric = iota
	MetricDownload
	MetricUpload
)

// Metrics lists all known metrics in canonical order.
var Metrics = []Metric{MetricPing, MetricDownload, MetricUpload}

var metricNames = map[string]Metric{
	"ping":     MetricPing,
	"download": MetricDownload,
	"upload":   MetricUpload,
}

// metricInfo carries the per-metric presentation data and the field accessor.
// Indexed by Metric so value lookup is a table jump, not a string compare.
var metricInfo = [...]struct {
	name  string
	label string
	value func(Record) float64
}{
	MetricPing:     {"ping", "Ping (ms)", func(r Record) float64 { return r.Ping }},
	MetricDownload: {"download", "Download (Mbps)", func(r Record) float64 { return r.Download }},
	MetricUpload:   {"upload", "Upload (Mbps)", func(r Record) float64 { return r.Upload }},
}

// ParseMetric resolves a metric name (case-insensitive, surrounding space
// ignored) to its Metric. Unknown names fail with ErrInvalidMetric.
func ParseMetric(s string) (Metric, error) {
	m, ok := metricNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: %q (want one of ping, download, upload)", ErrInvalidMetric, s)
	}
	return m, nil
}

func (m Metric) String() string { return metricInfo[m].name }

// Label returns the axis label including the unit.
func (m Metric) Label() string { return metricInfo[m].label }

// Value extracts this metric's field from a record.
func (m Metric) Value(r Record) float64 { return metricInfo[m].value(r) }
