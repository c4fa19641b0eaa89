package sensor

// Merge concatenates daily tables into one. The column set is the union of
// all inputs in first-seen order; cells a source does not have are missing.
// Rows are appended as-is: two sources reporting the same (room, date) yield
// two rows. No input, or only empty inputs, yields an empty table.
func Merge(tables ...*Table) *Table {
	out := &Table{}
	index := make(map[string]int)

	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.Columns {
			if _, ok := index[c]; !ok {
				index[c] = len(out.Columns)
				out.Columns = append(out.Columns, c)
			}
		}
	}

	for _, t := range tables {
		if t == nil {
			continue
		}
		dst := make([]int, len(t.Columns))
		for i, c := range t.Columns {
			dst[i] = index[c]
		}
		for _, r := range t.Rows {
			values := make([]float64, len(out.Columns))
			for i := range values {
				values[i] = Missing()
			}
			for i, v := range r.Values {
				values[dst[i]] = v
			}
			out.Rows = append(out.Rows, Row{Room: r.Room, Date: r.Date, Values: values})
		}
	}

	return out
}
