package sensor

import (
	"errors"
	"testing"
)

func TestFindExtremaFirstOccurrenceWins(t *testing.T) {
	tbl := &Table{
		Columns: []string{"Temp"},
		Rows: []Row{
			{Room: "A", Date: day(1), Values: []float64{10}},
			{Room: "A", Date: day(2), Values: []float64{30}},
			{Room: "A", Date: day(3), Values: []float64{30}},
			{Room: "A", Date: day(4), Values: []float64{10}},
		},
	}

	maxima, minima, err := FindExtrema(tbl, "Temp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(maxima) != 1 || len(minima) != 1 {
		t.Fatalf("expected one record per room, got %d maxima and %d minima", len(maxima), len(minima))
	}
	if !maxima[0].Date.Equal(day(2)) || maxima[0].Value != 30 {
		t.Errorf("expected max on 2024-01-02, got %v = %v", maxima[0].Date, maxima[0].Value)
	}
	if !minima[0].Date.Equal(day(1)) || minima[0].Value != 10 {
		t.Errorf("expected min on 2024-01-01, got %v = %v", minima[0].Date, minima[0].Value)
	}
}

func TestFindExtremaPerRoom(t *testing.T) {
	nan := Missing()
	tbl := &Table{
		Columns: []string{"Temp", "CO2"},
		Rows: []Row{
			{Room: "Office", Date: day(1), Values: []float64{22, nan}},
			{Room: "Living", Date: day(1), Values: []float64{19, 500}},
			{Room: "Office", Date: day(2), Values: []float64{18, nan}},
			{Room: "Living", Date: day(2), Values: []float64{23, 700}},
		},
	}

	maxima, minima, err := FindExtrema(tbl, "Temp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(maxima) != 2 || maxima[0].Room != "Office" || maxima[1].Room != "Living" {
		t.Fatalf("expected rooms in first-seen order, got %v", maxima)
	}
	if maxima[0].Value != 22 || minima[0].Value != 18 {
		t.Errorf("unexpected office extrema %v / %v", maxima[0], minima[0])
	}
	if maxima[1].Value != 23 || minima[1].Value != 19 {
		t.Errorf("unexpected living extrema %v / %v", maxima[1], minima[1])
	}

	// Office has no CO2 readings at all.
	maxima, _, err = FindExtrema(tbl, "CO2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(maxima) != 1 || maxima[0].Room != "Living" {
		t.Fatalf("expected only Living to have a CO2 record, got %v", maxima)
	}
}

func TestFindExtremaUnknownParameter(t *testing.T) {
	_, _, err := FindExtrema(&Table{Columns: []string{"Temp"}}, "Pressure")
	if !errors.Is(err, ErrUnknownParameter) {
		t.Fatalf("expected ErrUnknownParameter, got %v", err)
	}
}
