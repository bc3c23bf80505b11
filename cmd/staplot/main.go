// staplot renders a scatter plot of two speedtest metrics from an Excel
// workbook, annotating each point with the third metric's value.
//
// Usage: staplot [flags] <metric-x> <metric-y>
// where each metric is one of: ping, download, upload (and they must differ).
//
// Design notes:
//   - The workbook is loaded once and handed to the renderer; there is no
//     shared state between runs and nothing is persisted besides the PNG.
//   - Every failure (bad metric, unreadable workbook, missing column, empty
//     table) aborts with a message on stderr and a non-zero exit code. A
//     malformed input must never end up as an empty-looking chart.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/DarianElwood/speedtest-analysis/src/loader"
	"github.com/DarianElwood/speedtest-analysis/src/plotter"
	"github.com/DarianElwood/speedtest-analysis/src/speedtest"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <metric-x> <metric-y>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Metrics: ping, download, upload (x and y must differ)\n\nFlags:\n")
	flag.PrintDefaults()
}

func main() {
	file := flag.String("file", "speeds.xlsx", "Path to the speedtest results workbook")
	sheet := flag.String("sheet", "", "Sheet name (default: first sheet)")
	out := flag.String("out", "scatter.png", "Output PNG path")
	width := flag.Int("width", 1000, "Chart width in pixels")
	height := flag.Int("height", 600, "Chart height in pixels")
	title := flag.String("title", "", "Chart title (default derived from the chosen metrics)")
	caption := flag.Bool("caption", false, "Stamp a sample-count footer onto the chart")
	serverLabels := flag.Bool("server-labels", false, "Prefix point labels with the server name when present")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	flag.Usage = usage
	flag.Parse()
	speedtest.SetLogLevel(*logLevel)

	args := flag.Args()
	if len(args) != 2 {
		usage()
		os.Exit(2)
	}
	spec, err := speedtest.NewPlotSpec(args[0], args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	table, err := loader.LoadWorkbook(*file, *sheet)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	png, err := plotter.RenderScatter(table, spec, plotter.Options{
		Title:        *title,
		Width:        *width,
		Height:       *height,
		Caption:      *caption,
		ServerLabels: *serverLabels,
	})
	if err != nil {
		if errors.Is(err, speedtest.ErrEmptyData) {
			fmt.Fprintf(os.Stderr, "error: %s contains no data rows to plot\n", *file)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
	if err := plotter.SavePNG(*out, png); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("plotted %d points: %s vs %s (labels: %s) -> %s\n",
		table.Len(), spec.X, spec.Y, spec.Annotation, *out)
}
