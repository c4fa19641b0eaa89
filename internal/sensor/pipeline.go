package sensor

import (
	"bytes"
	"errors"
	"strings"
)

// Source is one uploaded file and the room label the user gave it.
type Source struct {
	Name string
	Room string
	Data []byte
}

// Report is the outcome of one pipeline run over a session's files.
type Report struct {
	Table     *Table       `json:"-"`
	Processed []string     `json:"processed"`
	Warnings  []*FileError `json:"-"`
	Failures  []*FileError `json:"-"`
	Empty     bool         `json:"empty"`
}

// Err returns ErrEmptyResult when no file contributed data.
func (r *Report) Err() error {
	if r.Empty {
		return ErrEmptyResult
	}
	return nil
}

// Process runs every source through normalization, room tagging and daily
// aggregation, then merges the results. Failures are isolated per file: a
// file without a room label is skipped with a warning, a malformed file is
// reported as a failure, and the rest still contribute.
func Process(sources []Source) *Report {
	rep := &Report{}
	var daily []*Table

	for _, src := range sources {
		if strings.TrimSpace(src.Room) == "" {
			rep.Warnings = append(rep.Warnings, newFileError(src.Name, ErrMissingRoomLabel, nil))
			continue
		}

		t, err := processOne(src)
		if err != nil {
			rep.Failures = append(rep.Failures, asFileError(src.Name, err))
			continue
		}
		daily = append(daily, t)
		rep.Processed = append(rep.Processed, src.Name)
	}

	rep.Table = Merge(daily...)
	rep.Empty = rep.Table.Empty()
	return rep
}

func processOne(src Source) (*Table, error) {
	nt, err := Normalize(src.Name, bytes.NewReader(src.Data))
	if err != nil {
		return nil, err
	}
	lt, err := TagRoom(nt, src.Room)
	if err != nil {
		return nil, err
	}
	return AggregateDaily(lt), nil
}

func asFileError(name string, err error) *FileError {
	var fe *FileError
	if errors.As(err, &fe) {
		return fe
	}
	return newFileError(name, ErrParseFailure, err)
}
