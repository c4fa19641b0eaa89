package sensor

import (
	"math"
	"time"
)

// Kind is the semantic type of a column.
type Kind string

const (
	KindTimestamp Kind = "timestamp"
	KindText      Kind = "text"
	KindNumeric   Kind = "numeric"
)

const (
	// DateColumn is the canonical name of the timestamp column.
	DateColumn = "date"
	// RoomColumn is the canonical name of the room label column.
	RoomColumn = "room"
)

// Field describes one column of a table.
type Field struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Schema is the ordered list of columns of a table.
type Schema []Field

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// Reading is one row of a sensor log: a timestamp and the measurement values
// aligned to the table's measurement fields. Missing values are NaN.
type Reading struct {
	Time   time.Time
	Values []float64
}

// NormalizedTable is a parsed sensor log with a canonical schema.
// Fields holds the measurement columns only; the date column is implicit.
type NormalizedTable struct {
	Name     string
	Fields   []Field
	Readings []Reading
}

// Schema returns the full schema: date followed by the measurement fields.
func (t *NormalizedTable) Schema() Schema {
	s := make(Schema, 0, len(t.Fields)+1)
	s = append(s, Field{Name: DateColumn, Kind: KindTimestamp})
	return append(s, t.Fields...)
}

// LabeledTable is a NormalizedTable with every row attributed to one room.
type LabeledTable struct {
	Name     string
	Room     string
	Fields   []Field
	Readings []Reading
}

// Schema returns date, room, then the measurement fields.
func (t *LabeledTable) Schema() Schema {
	s := make(Schema, 0, len(t.Fields)+2)
	s = append(s,
		Field{Name: DateColumn, Kind: KindTimestamp},
		Field{Name: RoomColumn, Kind: KindText},
	)
	return append(s, t.Fields...)
}

// Row is one room-day of aggregated data. Date is midnight UTC of the
// calendar day; Values align with the owning Table's Columns.
type Row struct {
	Room   string
	Date   time.Time
	Values []float64
}

// Table holds daily rows for one or more rooms. It is used both for a single
// source's daily aggregate and for the merged result of all sources.
// Every column in Columns is numeric.
type Table struct {
	Columns []string
	Rows    []Row
}

// ExtremumRecord is the row holding a room's maximum or minimum value.
type ExtremumRecord struct {
	Room  string    `json:"room"`
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// SeriesPoint is one element of a tidy (date, room, value) series.
type SeriesPoint struct {
	Date  time.Time
	Room  string
	Value float64
}

// IsMissing reports whether v represents a missing measurement.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Missing returns the value used for missing measurements.
func Missing() float64 {
	return math.NaN()
}

// Day truncates t to midnight UTC of its wall-clock calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
