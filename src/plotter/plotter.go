// Package plotter renders speedtest scatter charts headlessly to PNG. One
// point per record at (x-metric, y-metric), each labelled with the remaining
// metric's value. There is no window surface: callers write the bytes to a
// file, the same way the monitor-style viewers export their charts.
package plotter

import (
	"bytes"
	"fmt"
	"os"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/DarianElwood/speedtest-analysis/src/speedtest"
)

// Options controls chart geometry and decoration.
type Options struct {
	Title        string
	Width        int  // default 1000
	Height       int  // default 600
	Caption      bool // stamp a sample-count footer onto the image
	ServerLabels bool // prefix point labels with the server name when present
}

func (o Options) normalized() Options {
	if o.Width <= 0 {
		o.Width = 1000
	}
	if o.Height <= 0 {
		o.Height = 600
	}
	return o
}

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 0,
		DotWidth:    5,
		DotColor:    col,
	}
}

// RenderScatter draws the table as a scatter chart per the plot spec and
// returns the encoded PNG. An empty table is an error: a blank chart would
// look like a successful measurement run.
func RenderScatter(table speedtest.Table, spec speedtest.PlotSpec, opts Options) ([]byte, error) {
	defer speedtest.TimeTrack(time.Now(), "render scatter")
	if table.Empty() {
		return nil, speedtest.ErrEmptyData
	}
	opts = opts.normalized()

	xs := table.Values(spec.X)
	ys := table.Values(spec.Y)

	points := chart.ContinuousSeries{
		Name:    "samples",
		XValues: xs,
		YValues: ys,
		Style:   pointStyle(chart.ColorBlue),
	}
	notes := chart.AnnotationSeries{
		Annotations: buildAnnotations(table, spec, opts),
		Style: chart.Style{
			FontSize:    8,
			StrokeWidth: 1,
			StrokeColor: chart.ColorAlternateGray,
		},
	}

	// Explicit nice ranges on both axes: keeps labels readable and avoids the
	// degenerate min==max range a single-row table would otherwise produce.
	xMin, xMax := minMax(xs)
	yMin, yMax := minMax(ys)
	nxMin, nxMax := niceAxisBounds(xMin, xMax)
	nyMin, nyMax := niceAxisBounds(yMin, yMax)

	title := opts.Title
	if title == "" {
		title = fmt.Sprintf("Speed Test Results: %s vs %s", spec.X.Label(), spec.Y.Label())
	}
	ch := chart.Chart{
		Title:      title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28}},
		XAxis: chart.XAxis{
			Name:  spec.X.Label(),
			Range: &chart.ContinuousRange{Min: nxMin, Max: nxMax},
			Ticks: niceTicks(nxMin, nxMax, 8),
		},
		YAxis: chart.YAxis{
			Name:  spec.Y.Label(),
			Range: &chart.ContinuousRange{Min: nyMin, Max: nyMax},
			Ticks: niceTicks(nyMin, nyMax, 6),
		},
		Series: []chart.Series{points, notes},
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render scatter: %w", err)
	}
	if !opts.Caption {
		return buf.Bytes(), nil
	}
	caption := fmt.Sprintf("n=%d | point labels: %s", table.Len(), spec.Annotation.Label())
	out, err := stampCaption(buf.Bytes(), caption)
	if err != nil {
		// The chart itself rendered fine; a caption failure is not worth
		// failing the run over.
		speedtest.Warnf("caption stamp failed: %v", err)
		return buf.Bytes(), nil
	}
	return out, nil
}

// buildAnnotations labels each point with the annotation metric's value,
// optionally prefixed by the server name.
func buildAnnotations(table speedtest.Table, spec speedtest.PlotSpec, opts Options) []chart.Value2 {
	out := make([]chart.Value2, 0, table.Len())
	for _, r := range table.Records {
		label := formatTick(spec.Annotation.Value(r))
		if opts.ServerLabels && r.Server != "" {
			label = r.Server + " " + label
		}
		out = append(out, chart.Value2{
			XValue: spec.X.Value(r),
			YValue: spec.Y.Value(r),
			Label:  label,
		})
	}
	return out
}

func minMax(vals []float64) (float64, float64) {
	mn, mx := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}
	return mn, mx
}

// SavePNG writes rendered chart bytes to a file.
func SavePNG(path string, png []byte) error {
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return fmt.Errorf("save chart %s: %w", path, err)
	}
	speedtest.Infof("wrote chart to %s (%d bytes)", path, len(png))
	return nil
}
