package sensor

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// AggregateDaily groups a labeled table by (room, calendar day) and reduces
// every numeric column to the mean of its present values. A column with no
// present value in a group is missing for that group. Text columns are
// dropped. Rows come out ordered by room (first seen) then date.
func AggregateDaily(t *LabeledTable) *Table {
	var (
		cols    []string
		colIdx  []int
		dayKeys = make(map[time.Time]int)
		days    []time.Time
		buckets [][][]float64 // day -> column -> present values
	)

	for i, f := range t.Fields {
		if f.Kind != KindNumeric {
			continue
		}
		cols = append(cols, f.Name)
		colIdx = append(colIdx, i)
	}

	for _, rd := range t.Readings {
		day := Day(rd.Time)
		k, ok := dayKeys[day]
		if !ok {
			k = len(days)
			dayKeys[day] = k
			days = append(days, day)
			buckets = append(buckets, make([][]float64, len(cols)))
		}
		for c, src := range colIdx {
			if v := rd.Values[src]; !IsMissing(v) {
				buckets[k][c] = append(buckets[k][c], v)
			}
		}
	}

	order := make([]int, len(days))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return days[order[a]].Before(days[order[b]])
	})

	rows := make([]Row, 0, len(days))
	for _, k := range order {
		values := make([]float64, len(cols))
		for c, present := range buckets[k] {
			values[c] = mean(present)
		}
		rows = append(rows, Row{Room: t.Room, Date: days[k], Values: values})
	}

	return &Table{Columns: cols, Rows: rows}
}

// mean is the arithmetic mean of xs, or missing when xs is empty.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return Missing()
	}
	return stat.Mean(xs, nil)
}
