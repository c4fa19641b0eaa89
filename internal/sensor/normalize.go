package sensor

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const utf8BOM = "\ufeff"

// missingTokens are cell values read as a missing measurement.
var missingTokens = map[string]struct{}{
	"": {}, "nan": {}, "-nan": {}, "na": {}, "n/a": {}, "#n/a": {}, "#na": {},
	"null": {}, "none": {}, "<na>": {}, "-": {},
}

// Normalize reads a raw CSV sensor log and returns it with a canonical schema:
// column 0 renamed to date and parsed as a timestamp, remaining headers
// cleaned of room identifiers and made unique. A malformed file fails with
// ErrParseFailure; any unparseable timestamp fails with ErrTimestampFailure.
func Normalize(name string, r io.Reader) (*NormalizedTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, newFileError(name, ErrParseFailure, errors.New("file is empty"))
		}
		return nil, newFileError(name, ErrParseFailure, err)
	}
	header[0] = strings.TrimPrefix(header[0], utf8BOM)

	names := cleanHeaders(header[1:], 1)
	width := len(header)

	var (
		records  [][]string
		readings []Reading
		textCols = make([]bool, len(names))
	)

	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, newFileError(name, ErrParseFailure, err)
		}
		if len(rec) > width {
			return nil, newFileError(name, ErrParseFailure,
				fmt.Errorf("row %d has %d fields, header has %d", line, len(rec), width))
		}
		records = append(records, rec)
	}

	// Decide day-first or month-first once for the whole file.
	firstCells := make([]string, len(records))
	for i, rec := range records {
		firstCells[i] = rec[0]
	}
	order := detectDateOrder(firstCells)

	for i, rec := range records {
		ts, err := parseTimestamp(rec[0], order)
		if err != nil {
			return nil, newFileError(name, ErrTimestampFailure,
				fmt.Errorf("row %d: %w", i+1, err))
		}

		values := make([]float64, len(names))
		for j := range names {
			values[j] = Missing()
			if j+1 >= len(rec) {
				continue
			}
			v, present, ok := parseMeasurement(rec[j+1])
			if !ok {
				textCols[j] = true
				continue
			}
			if present {
				values[j] = v
			}
		}
		readings = append(readings, Reading{Time: ts, Values: values})
	}

	fields := make([]Field, len(names))
	for j, n := range names {
		fields[j] = Field{Name: n, Kind: KindNumeric}
		if textCols[j] {
			fields[j].Kind = KindText
		}
	}
	for _, rd := range readings {
		for j := range fields {
			if fields[j].Kind == KindText {
				rd.Values[j] = Missing()
			}
		}
	}

	t := &NormalizedTable{Name: name, Fields: fields, Readings: readings}
	if err := t.Schema().validate(); err != nil {
		return nil, newFileError(name, ErrParseFailure, err)
	}
	return t, nil
}

// parseMeasurement returns the value of a cell, whether it is present and
// whether it is numeric. Missing and non-finite cells are numeric and not
// present.
func parseMeasurement(raw string) (v float64, present, ok bool) {
	s := strings.TrimSpace(raw)
	if _, missing := missingTokens[strings.ToLower(s)]; missing {
		return 0, false, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, true
	}
	return v, true, true
}

// validate checks the invariants every downstream component relies on.
func (s Schema) validate() error {
	if len(s) == 0 || s[0].Name != DateColumn || s[0].Kind != KindTimestamp {
		return errors.New("first column must be the date timestamp")
	}
	seen := make(map[string]struct{}, len(s))
	for _, f := range s {
		if strings.TrimSpace(f.Name) != f.Name || f.Name == "" {
			return fmt.Errorf("column name %q is not trimmed", f.Name)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("duplicate column %q", f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}
