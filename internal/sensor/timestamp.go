package sensor

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// numericDate matches a leading d/m/y or m/d/y date separated by '/', '.'
// or '-', with a two or four digit year and an optional time part.
var numericDate = regexp.MustCompile(`^(\d{1,2})([/.\-])(\d{1,2})[/.\-](\d{4}|\d{2})(.*)$`)

// dateOrder is the field order of numeric dates within one file.
type dateOrder int

const (
	orderUnknown dateOrder = iota
	orderMonthFirst
	orderDayFirst
)

// detectDateOrder settles the order once per file from the first cell
// whose leading field or middle field cannot be a month.
func detectDateOrder(cells []string) dateOrder {
	for _, c := range cells {
		m := numericDate.FindStringSubmatch(strings.TrimSpace(c))
		if m == nil {
			continue
		}
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[3])
		switch {
		case a > 12 && b <= 12:
			return orderDayFirst
		case b > 12 && a <= 12:
			return orderMonthFirst
		}
	}
	return orderUnknown
}

// canonicalDate rewrites a numeric date to month/day/year. Without evidence
// from the file, dotted dates are read day first and the others month first.
func canonicalDate(s string, order dateOrder) string {
	m := numericDate.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	month, day := m[1], m[3]
	if order == orderDayFirst || (order == orderUnknown && m[2] == ".") {
		month, day = day, month
	}
	return month + "/" + day + "/" + m[4] + m[5]
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// parseTimestamp parses one cell of the date column. Values without a zone
// are read as UTC; epoch values are returned in UTC.
func parseTimestamp(raw string, order dateOrder) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}
	ts, err := dateparse.ParseIn(canonicalDate(s, order), time.UTC,
		dateparse.RetryAmbiguousDateWithSwap(true))
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse %q as a timestamp", s)
	}
	if isDigits(s) {
		ts = ts.UTC()
	}
	return ts, nil
}
