package speedtest

// Record is one speedtest measurement row. Server and Device are optional
// labels carried through from the workbook when present; the three numeric
// fields are always populated. Records are never mutated after loading.
type Record struct {
	Server   string
	Device   string
	Ping     float64 // ms
	Download float64 // Mbps
	Upload   float64 // Mbps
}

// Table is an ordered sequence of records. Order matches the workbook row
// order, so two loads of the same file produce identical tables.
type Table struct {
	Records []Record
}

func (t Table) Len() int    { return len(t.Records) }
func (t Table) Empty() bool { return len(t.Records) == 0 }

// Values extracts one metric's column in row order.
func (t Table) Values(m Metric) []float64 {
	out := make([]float64, 0, len(t.Records))
	for _, r := range t.Records {
		out = append(out, m.Value(r))
	}
	return out
}
