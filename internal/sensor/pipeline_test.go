package sensor

import (
	"errors"
	"testing"
)

const officeCSV = `time,Temperature Room 2,CO2 room2
2024-01-01 09:00,22,600
2024-01-01 15:00,24,800
`

func TestProcessSkipsUnlabeledFiles(t *testing.T) {
	rep := Process([]Source{
		{Name: "living.csv", Room: "", Data: []byte(livingRoomCSV)},
		{Name: "office.csv", Room: "Office", Data: []byte(officeCSV)},
	})

	if rep.Empty {
		t.Fatalf("expected data from the labeled file")
	}
	if len(rep.Warnings) != 1 || !errors.Is(rep.Warnings[0], ErrMissingRoomLabel) {
		t.Fatalf("expected one MissingRoomLabel warning, got %v", rep.Warnings)
	}
	if rep.Warnings[0].File != "living.csv" {
		t.Errorf("expected warning for living.csv, got %q", rep.Warnings[0].File)
	}
	if rooms := rep.Table.Rooms(); len(rooms) != 1 || rooms[0] != "Office" {
		t.Fatalf("expected only Office rows, got rooms %v", rooms)
	}
	if len(rep.Table.Rows) != 1 {
		t.Fatalf("expected 1 daily row, got %d", len(rep.Table.Rows))
	}
	temp, _ := rep.Table.Column("Temperature")
	if v := rep.Table.Rows[0].Values[temp]; v != 23 {
		t.Errorf("expected daily mean 23, got %v", v)
	}
}

func TestProcessNoFiles(t *testing.T) {
	rep := Process(nil)
	if !rep.Empty {
		t.Fatalf("expected an empty result")
	}
	if rep.Table == nil || !rep.Table.Empty() {
		t.Fatalf("expected an empty combined table, got %+v", rep.Table)
	}
	if !errors.Is(rep.Err(), ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", rep.Err())
	}
}

func TestProcessIsolatesBadFiles(t *testing.T) {
	rep := Process([]Source{
		{Name: "broken.csv", Room: "Attic", Data: []byte("date,Temp\nlater,1\n")},
		{Name: "empty.csv", Room: "Cellar", Data: nil},
		{Name: "office.csv", Room: "Office", Data: []byte(officeCSV)},
	})

	if len(rep.Failures) != 2 {
		t.Fatalf("expected 2 failures, got %v", rep.Failures)
	}
	if !errors.Is(rep.Failures[0], ErrTimestampFailure) {
		t.Errorf("expected TimestampFailure for broken.csv, got %v", rep.Failures[0])
	}
	if !errors.Is(rep.Failures[1], ErrParseFailure) {
		t.Errorf("expected ParseFailure for empty.csv, got %v", rep.Failures[1])
	}
	if len(rep.Processed) != 1 || rep.Processed[0] != "office.csv" {
		t.Fatalf("expected office.csv to be processed, got %v", rep.Processed)
	}
	if rep.Err() != nil {
		t.Fatalf("expected a usable result, got %v", rep.Err())
	}
}

func TestProcessIdempotent(t *testing.T) {
	sources := []Source{
		{Name: "living.csv", Room: "Living", Data: []byte(livingRoomCSV)},
		{Name: "office.csv", Room: "Office", Data: []byte(officeCSV)},
	}
	a, b := Process(sources).Table, Process(sources).Table

	if len(a.Rows) != len(b.Rows) || len(a.Columns) != len(b.Columns) {
		t.Fatalf("expected identical shapes")
	}
	for i := range a.Rows {
		if a.Rows[i].Room != b.Rows[i].Room || !a.Rows[i].Date.Equal(b.Rows[i].Date) {
			t.Fatalf("row %d differs", i)
		}
		for j := range a.Rows[i].Values {
			if !sameValue(a.Rows[i].Values[j], b.Rows[i].Values[j]) {
				t.Fatalf("row %d value %d differs", i, j)
			}
		}
	}
}
