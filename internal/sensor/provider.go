package sensor

import (
	"context"
	"time"
)

// Fetcher retrieves a CSV sensor log from a remote location.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Store is the contract the in-memory session store (and any future
// persistent store) must satisfy.
type Store interface {
	Create(s *Session) error
	Get(id string) (*Session, error)
	Update(id string, fn func(s *Session) error) error
	Delete(id string) error
	Prune(now time.Time) int
}

// Recorder observes pipeline activity. The metrics package implements it.
type Recorder interface {
	ObserveRun(processed, warnings, failures, rows int, elapsed time.Duration)
	ObserveImport(ok bool)
	ObservePruned(n int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRun(int, int, int, int, time.Duration) {}
func (nopRecorder) ObserveImport(bool)                           {}
func (nopRecorder) ObservePruned(int)                            {}
