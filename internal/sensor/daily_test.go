package sensor

import (
	"testing"
	"time"
)

func at(day, hour int) time.Time {
	return time.Date(2024, 1, day, hour, 0, 0, 0, time.UTC)
}

func TestAggregateDailyMeanOfPresentValues(t *testing.T) {
	nan := Missing()
	lt := &LabeledTable{
		Name: "living.csv",
		Room: "Living",
		Fields: []Field{
			{Name: "Temperature", Kind: KindNumeric},
			{Name: "Note", Kind: KindText},
			{Name: "Humidity", Kind: KindNumeric},
		},
		Readings: []Reading{
			{Time: at(2, 9), Values: []float64{19, nan, nan}},
			{Time: at(1, 8), Values: []float64{20, nan, 40}},
			{Time: at(1, 12), Values: []float64{22, nan, nan}},
			{Time: at(1, 18), Values: []float64{nan, nan, 44}},
		},
	}

	got := AggregateDaily(lt)

	if len(got.Columns) != 2 || got.Columns[0] != "Temperature" || got.Columns[1] != "Humidity" {
		t.Fatalf("expected numeric columns only, got %v", got.Columns)
	}
	if len(got.Rows) != 2 {
		t.Fatalf("expected 2 daily rows, got %d", len(got.Rows))
	}

	day1 := got.Rows[0]
	if !day1.Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected rows ordered by date, first is %v", day1.Date)
	}
	if day1.Room != "Living" {
		t.Errorf("expected room Living, got %q", day1.Room)
	}
	if day1.Values[0] != 21 {
		t.Errorf("expected temperature mean 21, got %v", day1.Values[0])
	}
	if day1.Values[1] != 42 {
		t.Errorf("expected humidity mean 42, got %v", day1.Values[1])
	}

	day2 := got.Rows[1]
	if day2.Values[0] != 19 {
		t.Errorf("expected temperature 19, got %v", day2.Values[0])
	}
	if !IsMissing(day2.Values[1]) {
		t.Errorf("expected all-missing group to stay missing, got %v", day2.Values[1])
	}
}

func TestAggregateDailyEmpty(t *testing.T) {
	got := AggregateDaily(&LabeledTable{
		Room:   "Office",
		Fields: []Field{{Name: "CO2", Kind: KindNumeric}},
	})
	if !got.Empty() {
		t.Fatalf("expected empty table, got %d rows", len(got.Rows))
	}
	if len(got.Columns) != 1 {
		t.Fatalf("expected columns to survive, got %v", got.Columns)
	}
}
