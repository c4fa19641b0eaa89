package sensor

// FindExtrema returns, per room in first-seen order, the row holding the
// maximum and the row holding the minimum of param. Ties keep the first row
// in input order. Missing values are skipped, so a room with no present
// value has no record.
func FindExtrema(t *Table, param string) (maxima, minima []ExtremumRecord, err error) {
	col, err := t.Column(param)
	if err != nil {
		return nil, nil, err
	}

	index := make(map[string]int)
	for _, r := range t.Rows {
		v := r.Values[col]
		if IsMissing(v) {
			continue
		}
		rec := ExtremumRecord{Room: r.Room, Date: r.Date, Value: v}

		i, ok := index[r.Room]
		if !ok {
			index[r.Room] = len(maxima)
			maxima = append(maxima, rec)
			minima = append(minima, rec)
			continue
		}
		if v > maxima[i].Value {
			maxima[i] = rec
		}
		if v < minima[i].Value {
			minima[i] = rec
		}
	}
	return maxima, minima, nil
}
