package sensor

import (
	"fmt"
	"sort"
	"time"
)

// Filter selects rows of a combined table. Zero bounds are open; both bounds
// are inclusive and compared by calendar day. A nil Rooms selects all rooms.
type Filter struct {
	From  time.Time
	To    time.Time
	Rooms []string
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// Column returns the index of the named column.
func (t *Table) Column(name string) (int, error) {
	for i, c := range t.Columns {
		if c == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
}

// Rooms returns the distinct rooms in first-seen order.
func (t *Table) Rooms() []string {
	seen := make(map[string]struct{})
	var rooms []string
	for _, r := range t.Rows {
		if _, ok := seen[r.Room]; ok {
			continue
		}
		seen[r.Room] = struct{}{}
		rooms = append(rooms, r.Room)
	}
	return rooms
}

// DateRange returns the earliest and latest dates. ok is false for an empty table.
func (t *Table) DateRange() (min, max time.Time, ok bool) {
	for i, r := range t.Rows {
		if i == 0 || r.Date.Before(min) {
			min = r.Date
		}
		if i == 0 || r.Date.After(max) {
			max = r.Date
		}
	}
	return min, max, len(t.Rows) > 0
}

// FocusWindow is the default one-month window ending at the latest date,
// clamped to the earliest date.
func (t *Table) FocusWindow() (from, to time.Time, ok bool) {
	min, max, ok := t.DateRange()
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	from = max.AddDate(0, -1, 0)
	if from.Before(min) {
		from = min
	}
	return from, max, true
}

// Filter returns the rows matching f. The columns are shared with t.
func (t *Table) Filter(f Filter) *Table {
	var rooms map[string]struct{}
	if f.Rooms != nil {
		rooms = make(map[string]struct{}, len(f.Rooms))
		for _, r := range f.Rooms {
			rooms[r] = struct{}{}
		}
	}
	from, to := f.From, f.To
	if !from.IsZero() {
		from = Day(from)
	}
	if !to.IsZero() {
		to = Day(to)
	}

	out := &Table{Columns: t.Columns}
	for _, r := range t.Rows {
		if !from.IsZero() && r.Date.Before(from) {
			continue
		}
		if !to.IsZero() && r.Date.After(to) {
			continue
		}
		if rooms != nil {
			if _, ok := rooms[r.Room]; !ok {
				continue
			}
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}

// Present returns the rows where param is not missing.
func (t *Table) Present(param string) (*Table, error) {
	col, err := t.Column(param)
	if err != nil {
		return nil, err
	}
	out := &Table{Columns: t.Columns}
	for _, r := range t.Rows {
		if !IsMissing(r.Values[col]) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out, nil
}

// Series returns the tidy (date, room, value) points of param, skipping
// missing values, ordered by room (first seen) then date.
func (t *Table) Series(param string) ([]SeriesPoint, error) {
	col, err := t.Column(param)
	if err != nil {
		return nil, err
	}
	byRoom := make(map[string][]SeriesPoint)
	for _, r := range t.Rows {
		v := r.Values[col]
		if IsMissing(v) {
			continue
		}
		byRoom[r.Room] = append(byRoom[r.Room], SeriesPoint{Date: r.Date, Room: r.Room, Value: v})
	}

	var points []SeriesPoint
	for _, room := range t.Rooms() {
		ps := byRoom[room]
		sortPointsByDate(ps)
		points = append(points, ps...)
	}
	return points, nil
}

func sortPointsByDate(ps []SeriesPoint) {
	sort.SliceStable(ps, func(i, j int) bool {
		return ps[i].Date.Before(ps[j].Date)
	})
}
