package sensor

import (
	"sort"
	"time"
)

// Season is a meteorological season.
type Season string

const (
	Winter Season = "Winter"
	Spring Season = "Spring"
	Summer Season = "Summer"
	Fall   Season = "Fall"
)

var seasonOrder = map[Season]int{Winter: 0, Spring: 1, Summer: 2, Fall: 3}

// SeasonalAggregate is the mean of a parameter over one season of one year.
type SeasonalAggregate struct {
	Year   int     `json:"year"`
	Season Season  `json:"season"`
	Mean   float64 `json:"mean"`
	Count  int     `json:"count"`
}

// SeasonOf maps a date to its season and adjusted year. December belongs to
// the following year's Winter.
func SeasonOf(t time.Time) (Season, int) {
	year := t.Year()
	switch t.Month() {
	case time.December:
		return Winter, year + 1
	case time.January, time.February:
		return Winter, year
	case time.March, time.April, time.May:
		return Spring, year
	case time.June, time.July, time.August:
		return Summer, year
	default:
		return Fall, year
	}
}

// SeasonalMeans averages param over every row, across all rooms, sharing an
// (adjusted year, season) bucket. Missing values are skipped. Buckets come
// out in chronological order.
func SeasonalMeans(t *Table, param string) ([]SeasonalAggregate, error) {
	col, err := t.Column(param)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		year   int
		season Season
	}
	values := make(map[bucket][]float64)
	var keys []bucket

	for _, r := range t.Rows {
		v := r.Values[col]
		if IsMissing(v) {
			continue
		}
		s, y := SeasonOf(r.Date)
		k := bucket{year: y, season: s}
		if _, ok := values[k]; !ok {
			keys = append(keys, k)
		}
		values[k] = append(values[k], v)
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		return seasonOrder[keys[i].season] < seasonOrder[keys[j].season]
	})

	out := make([]SeasonalAggregate, 0, len(keys))
	for _, k := range keys {
		vs := values[k]
		out = append(out, SeasonalAggregate{
			Year:   k.year,
			Season: k.season,
			Mean:   mean(vs),
			Count:  len(vs),
		})
	}
	return out, nil
}
