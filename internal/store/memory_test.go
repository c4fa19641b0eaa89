package store

import (
	"errors"
	"testing"
	"time"

	"github.com/i474232898/sensor-dashboard/internal/sensor"
)

func session(id string, updated time.Time) *sensor.Session {
	return &sensor.Session{ID: id, CreatedAt: updated, UpdatedAt: updated}
}

func TestMemoryStoreEvictsOldestByCount(t *testing.T) {
	s := NewMemoryStore(2, 0)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b"} {
		if err := s.Create(session(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	// The new session is older than both, but it must survive eviction.
	if err := s.Create(session("c", base.Add(-time.Hour))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Len() != 2 {
		t.Fatalf("expected 2 sessions, got %d", s.Len())
	}
	if _, err := s.Get("a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected a to be evicted, got %v", err)
	}
	if _, err := s.Get("c"); err != nil {
		t.Fatalf("expected c to survive, got %v", err)
	}
}

func TestMemoryStorePrune(t *testing.T) {
	s := NewMemoryStore(0, time.Hour)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	_ = s.Create(session("idle", now.Add(-2*time.Hour)))
	_ = s.Create(session("active", now.Add(-10*time.Minute)))

	if n := s.Prune(now); n != 1 {
		t.Fatalf("expected 1 pruned session, got %d", n)
	}
	if _, err := s.Get("active"); err != nil {
		t.Fatalf("expected active session to remain, got %v", err)
	}

	unlimited := NewMemoryStore(0, 0)
	_ = unlimited.Create(session("old", now.Add(-1000*time.Hour)))
	if n := unlimited.Prune(now); n != 0 {
		t.Fatalf("expected no pruning without a max age, got %d", n)
	}
}

func TestMemoryStoreUpdateRollsBackOnError(t *testing.T) {
	s := NewMemoryStore(0, 0)
	_ = s.Create(session("a", time.Now()))

	err := s.Update("a", func(sess *sensor.Session) error {
		sess.Files = append(sess.Files, sensor.UploadedFile{Name: "x.csv"})
		return errors.New("rejected")
	})
	if err == nil {
		t.Fatalf("expected update error")
	}
	got, _ := s.Get("a")
	if len(got.Files) != 0 {
		t.Fatalf("expected failed update to leave the session unchanged, got %d files", len(got.Files))
	}

	err = s.Update("a", func(sess *sensor.Session) error {
		sess.Files = append(sess.Files, sensor.UploadedFile{Name: "x.csv"})
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ = s.Get("a")
	if len(got.Files) != 1 {
		t.Fatalf("expected the update to be committed, got %d files", len(got.Files))
	}

	if err := s.Update("missing", func(*sensor.Session) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	s := NewMemoryStore(0, 0)
	_ = s.Create(session("a", time.Now()))

	got, _ := s.Get("a")
	got.Files = append(got.Files, sensor.UploadedFile{Name: "leak.csv"})

	again, _ := s.Get("a")
	if len(again.Files) != 0 {
		t.Fatalf("expected store contents to be isolated from callers")
	}
	if err := s.Create(session("a", time.Now())); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if err := s.Delete("a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Delete("a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
