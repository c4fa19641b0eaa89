package sensor

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestMergeUnionOfColumns(t *testing.T) {
	a := &Table{
		Columns: []string{"Temperature", "Humidity"},
		Rows:    []Row{{Room: "Living", Date: day(1), Values: []float64{21, 40}}},
	}
	b := &Table{
		Columns: []string{"Humidity", "CO2"},
		Rows:    []Row{{Room: "Office", Date: day(1), Values: []float64{50, 600}}},
	}

	got := Merge(a, nil, b)

	want := []string{"Temperature", "Humidity", "CO2"}
	if len(got.Columns) != len(want) {
		t.Fatalf("expected columns %v, got %v", want, got.Columns)
	}
	for i := range want {
		if got.Columns[i] != want[i] {
			t.Fatalf("expected columns %v, got %v", want, got.Columns)
		}
	}
	if len(got.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got.Rows))
	}

	living := got.Rows[0].Values
	if living[0] != 21 || living[1] != 40 || !IsMissing(living[2]) {
		t.Errorf("unexpected living row %v", living)
	}
	office := got.Rows[1].Values
	if !IsMissing(office[0]) || office[1] != 50 || office[2] != 600 {
		t.Errorf("unexpected office row %v", office)
	}
}

func TestMergeKeepsDuplicateRoomDays(t *testing.T) {
	a := &Table{Columns: []string{"Temp"}, Rows: []Row{{Room: "Living", Date: day(1), Values: []float64{20}}}}
	b := &Table{Columns: []string{"Temp"}, Rows: []Row{{Room: "Living", Date: day(1), Values: []float64{24}}}}

	got := Merge(a, b)
	if len(got.Rows) != 2 {
		t.Fatalf("expected duplicate (room, date) rows to be preserved, got %d rows", len(got.Rows))
	}
	if got.Rows[0].Values[0] != 20 || got.Rows[1].Values[0] != 24 {
		t.Errorf("expected input order to be kept, got %v and %v", got.Rows[0].Values, got.Rows[1].Values)
	}
}

func TestMergeNothing(t *testing.T) {
	if got := Merge(); !got.Empty() {
		t.Fatalf("expected empty table, got %d rows", len(got.Rows))
	}
	if got := Merge(&Table{}, &Table{}); !got.Empty() {
		t.Fatalf("expected empty table, got %d rows", len(got.Rows))
	}
}
