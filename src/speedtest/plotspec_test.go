package speedtest

import (
	"errors"
	"testing"
)

func TestNewPlotSpec_AnnotationIsRemainingMetric(t *testing.T) {
	cases := []struct {
		x, y string
		ann  Metric
	}{
		{"ping", "download", MetricUpload},
		{"download", "ping", MetricUpload},
		{"ping", "upload", MetricDownload},
		{"upload", "ping", MetricDownload},
		{"download", "upload", MetricPing},
		{"upload", "download", MetricPing},
	}
	for _, tc := range cases {
		spec, err := NewPlotSpec(tc.x, tc.y)
		if err != nil {
			t.Fatalf("NewPlotSpec(%s,%s): %v", tc.x, tc.y, err)
		}
		if spec.Annotation != tc.ann {
			t.Fatalf("annotation for (%s,%s): got %s want %s", tc.x, tc.y, spec.Annotation, tc.ann)
		}
		if spec.X == spec.Y {
			t.Fatalf("axes collapsed for (%s,%s)", tc.x, tc.y)
		}
	}
}

func TestNewPlotSpec_RejectsDuplicates(t *testing.T) {
	for _, name := range []string{"ping", "download", "upload"} {
		_, err := NewPlotSpec(name, name)
		if !errors.Is(err, ErrSameMetric) {
			t.Fatalf("duplicate %q: expected ErrSameMetric, got %v", name, err)
		}
	}
}

func TestNewPlotSpec_RejectsUnknownNames(t *testing.T) {
	if _, err := NewPlotSpec("latency", "download"); !errors.Is(err, ErrInvalidMetric) {
		t.Fatalf("expected ErrInvalidMetric for x, got %v", err)
	}
	if _, err := NewPlotSpec("ping", "jitter"); !errors.Is(err, ErrInvalidMetric) {
		t.Fatalf("expected ErrInvalidMetric for y, got %v", err)
	}
}

func TestParseMetric_CaseAndSpace(t *testing.T) {
	m, err := ParseMetric("  Download ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m != MetricDownload {
		t.Fatalf("got %s", m)
	}
}

func TestMetricValueLookup(t *testing.T) {
	r := Record{Ping: 12, Download: 50, Upload: 10}
	if v := MetricPing.Value(r); v != 12 {
		t.Fatalf("ping value %v", v)
	}
	if v := MetricDownload.Value(r); v != 50 {
		t.Fatalf("download value %v", v)
	}
	if v := MetricUpload.Value(r); v != 10 {
		t.Fatalf("upload value %v", v)
	}
	if got := MetricPing.Label(); got != "Ping (ms)" {
		t.Fatalf("label %q", got)
	}
}

func TestTableValuesOrder(t *testing.T) {
	tb := Table{Records: []Record{
		{Ping: 12, Download: 50, Upload: 10},
		{Ping: 20, Download: 80, Upload: 15},
	}}
	ds := tb.Values(MetricDownload)
	if len(ds) != 2 || ds[0] != 50 || ds[1] != 80 {
		t.Fatalf("download column out of order: %v", ds)
	}
}
