// Package loader reads speedtest measurements from an Excel workbook and
// optional server coordinates from a CSV, producing the in-memory table the
// plotting and regression paths consume.
//
// Design notes:
//   - Loading is read-only and deterministic: the same workbook always yields
//     the same record sequence (row order preserved).
//   - A malformed workbook fails the run. Nothing downstream should ever see a
//     silently truncated or partially parsed table.
package loader

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/pkg/errors"

	"github.com/DarianElwood/speedtest-analysis/src/speedtest"
)

// Column headers recognized in the workbook, after lowercasing and trimming.
// Ping, Download and Upload are required; Server and Device are optional
// labels carried onto the records when present.
const (
	colServer   = "server"
	colDevice   = "device"
	colPing     = "ping"
	colDownload = "download"
	colUpload   = "upload"
)

// LoadWorkbook reads one sheet of an xlsx workbook into a Table. An empty
// sheet name selects the workbook's first sheet.
func LoadWorkbook(path, sheet string) (speedtest.Table, error) {
	defer speedtest.TimeTrack(time.Now(), "load workbook")
	f, err := excelize.OpenFile(path)
	if err != nil {
		return speedtest.Table{}, errors.Wrapf(err, "open workbook %s", path)
	}
	if sheet == "" {
		sheet = firstSheet(f)
	}
	rows := f.GetRows(sheet)
	if len(rows) == 0 {
		return speedtest.Table{}, errors.Errorf("workbook %s: sheet %q not found or empty", path, sheet)
	}
	cols, err := mapHeader(rows[0])
	if err != nil {
		return speedtest.Table{}, errors.Wrapf(err, "workbook %s sheet %q", path, sheet)
	}
	var table speedtest.Table
	for i, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		rec, err := parseRow(row, cols)
		if err != nil {
			return speedtest.Table{}, errors.Wrapf(err, "workbook %s sheet %q row %d", path, sheet, i+2)
		}
		table.Records = append(table.Records, rec)
	}
	speedtest.Infof("loaded %d records from %s (sheet %q)", table.Len(), path, sheet)
	return table, nil
}

// firstSheet returns the lowest-index sheet name so selection is stable no
// matter which sheet was active when the file was saved.
func firstSheet(f *excelize.File) string {
	m := f.GetSheetMap()
	idxs := make([]int, 0, len(m))
	for i := range m {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)
	if len(idxs) == 0 {
		return ""
	}
	return m[idxs[0]]
}

// mapHeader resolves the header row into column indexes and verifies the
// three metric columns are all present.
func mapHeader(header []string) (map[string]int, error) {
	cols := map[string]int{}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "" {
			continue
		}
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	for _, required := range []string{colPing, colDownload, colUpload} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %q", speedtest.ErrMissingColumn, required)
		}
	}
	return cols, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseRow(row []string, cols map[string]int) (speedtest.Record, error) {
	var rec speedtest.Record
	if idx, ok := cols[colServer]; ok {
		rec.Server = cell(row, idx)
	}
	if idx, ok := cols[colDevice]; ok {
		rec.Device = cell(row, idx)
	}
	var err error
	if rec.Ping, err = numericCell(row, cols[colPing], colPing); err != nil {
		return speedtest.Record{}, err
	}
	if rec.Download, err = numericCell(row, cols[colDownload], colDownload); err != nil {
		return speedtest.Record{}, err
	}
	if rec.Upload, err = numericCell(row, cols[colUpload], colUpload); err != nil {
		return speedtest.Record{}, err
	}
	return rec, nil
}

func numericCell(row []string, idx int, name string) (float64, error) {
	raw := cell(row, idx)
	if raw == "" {
		return 0, errors.Errorf("empty %s cell", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Errorf("bad %s value %q", name, raw)
	}
	return v, nil
}

// WriteWorkbook writes a table back out as an xlsx workbook with the standard
// header row. Used by tests and export tooling.
func WriteWorkbook(path string, table speedtest.Table) error {
	f := excelize.NewFile()
	const sheet = "Sheet1"
	headers := []string{"Server", "Device", "Ping", "Download", "Upload"}
	for i, h := range headers {
		f.SetCellValue(sheet, fmt.Sprintf("%s1", string(rune('A'+i))), h)
	}
	for i, r := range table.Records {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.Server)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.Device)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.Ping)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.Download)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.Upload)
	}
	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "save workbook %s", path)
	}
	return nil
}
