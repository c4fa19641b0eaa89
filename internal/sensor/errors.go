package sensor

import (
	"errors"
	"fmt"
)

var (
	// ErrParseFailure marks a file that is not valid tabular data.
	ErrParseFailure = errors.New("parse failure")
	// ErrTimestampFailure marks a file whose first column has an unparseable value.
	ErrTimestampFailure = errors.New("timestamp failure")
	// ErrMissingRoomLabel marks a file that has no room label at process time.
	ErrMissingRoomLabel = errors.New("missing room label")
	// ErrEmptyResult is returned when no file contributed data.
	ErrEmptyResult = errors.New("nothing to show")
	// ErrUnknownParameter is returned for a parameter that is not a column of the table.
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrFileNotFound is returned when a session has no file with the given name.
	ErrFileNotFound = errors.New("file not found")
	// ErrImportsDisabled is returned by ImportRemote when no fetcher is configured.
	ErrImportsDisabled = errors.New("remote imports are disabled")
)

// FileError is a failure isolated to one uploaded file.
// errors.Is matches both Kind and the underlying cause.
type FileError struct {
	File string
	Kind error
	Err  error
}

func (e *FileError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.File, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.File, e.Kind, e.Err)
}

func (e *FileError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newFileError(file string, kind, err error) *FileError {
	return &FileError{File: file, Kind: kind, Err: err}
}
