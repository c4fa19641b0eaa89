package sensor

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service owns the session workflow: collecting files and room labels,
// running the pipeline and answering dashboard queries from the latest run.
type Service struct {
	store   Store
	fetcher Fetcher
	log     *zap.Logger
	rec     Recorder
	now     func() time.Time
}

// NewService creates a new Service. fetcher may be nil to disable remote
// imports; logger and rec may be nil.
func NewService(store Store, fetcher Fetcher, logger *zap.Logger, rec Recorder) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Service{
		store:   store,
		fetcher: fetcher,
		log:     logger,
		rec:     rec,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Query narrows a dashboard to a date range, a set of rooms and a set of
// parameters. Nil Rooms or Parameters select everything.
type Query struct {
	Filter
	Parameters []string
}

// ParameterView is everything a renderer needs for one parameter.
type ParameterView struct {
	Name      string
	Precision int
	Series    []SeriesPoint
	Maxima    []ExtremumRecord
	Minima    []ExtremumRecord
	Seasons   []SeasonalAggregate
}

// Dashboard is the answer to a Query.
type Dashboard struct {
	Rooms      []string
	From, To   time.Time
	Parameters []ParameterView
}

// ColumnSummary describes one measurement column of the combined table.
type ColumnSummary struct {
	Name      string
	Precision int
	Present   int
}

// Summary describes the latest combined table of a session.
type Summary struct {
	Columns     []ColumnSummary
	Rooms       []string
	Rows        int
	From, To    time.Time
	FocusFrom   time.Time
	FocusTo     time.Time
	Report      *Report
	ProcessedAt time.Time
}

// CreateSession starts a new, empty session.
func (s *Service) CreateSession() (*Session, error) {
	now := s.now()
	sess := &Session{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	if err := s.store.Create(sess); err != nil {
		return nil, err
	}
	s.log.Info("session created", zap.String("session", sess.ID))
	return sess.Clone(), nil
}

// Session returns a snapshot of a session.
func (s *Service) Session(id string) (*Session, error) {
	return s.store.Get(id)
}

// DeleteSession drops a session and everything it holds.
func (s *Service) DeleteSession(id string) error {
	if err := s.store.Delete(id); err != nil {
		return err
	}
	s.log.Info("session deleted", zap.String("session", id))
	return nil
}

// AddFile stores an uploaded file with its room label, replacing any file
// with the same name.
func (s *Service) AddFile(id, name, room string, data []byte) (*UploadedFile, error) {
	return s.putFile(id, UploadedFile{
		Name:   name,
		Room:   strings.TrimSpace(room),
		Origin: OriginUpload,
		Data:   data,
	})
}

func (s *Service) putFile(id string, f UploadedFile) (*UploadedFile, error) {
	f.Size = len(f.Data)
	f.Added = s.now()
	err := s.store.Update(id, func(sess *Session) error {
		sess.putFile(f)
		sess.UpdatedAt = f.Added
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("file stored",
		zap.String("session", id),
		zap.String("file", f.Name),
		zap.String("room", f.Room),
		zap.String("origin", f.Origin),
		zap.Int("bytes", f.Size),
	)
	if f.Room == "" {
		s.log.Warn("file has no room label", zap.String("session", id), zap.String("file", f.Name))
	}
	return &f, nil
}

// SetRoom changes the room label of a stored file.
func (s *Service) SetRoom(id, name, room string) error {
	return s.store.Update(id, func(sess *Session) error {
		i, ok := sess.file(name)
		if !ok {
			return fmt.Errorf("%w: %q", ErrFileNotFound, name)
		}
		sess.Files[i].Room = strings.TrimSpace(room)
		sess.UpdatedAt = s.now()
		return nil
	})
}

// RemoveFile drops a stored file. The latest report is kept until the next run.
func (s *Service) RemoveFile(id, name string) error {
	return s.store.Update(id, func(sess *Session) error {
		i, ok := sess.file(name)
		if !ok {
			return fmt.Errorf("%w: %q", ErrFileNotFound, name)
		}
		sess.Files = append(sess.Files[:i], sess.Files[i+1:]...)
		sess.UpdatedAt = s.now()
		return nil
	})
}

// ImportRemote fetches a CSV log from rawURL and stores it like an upload.
// An empty name defaults to the last path element of the URL.
func (s *Service) ImportRemote(ctx context.Context, id, name, rawURL, room string) (*UploadedFile, error) {
	if s.fetcher == nil {
		return nil, ErrImportsDisabled
	}
	if _, err := s.store.Get(id); err != nil {
		return nil, err
	}
	if name == "" {
		name = nameFromURL(rawURL)
	}

	data, err := s.fetcher.Fetch(ctx, rawURL)
	s.rec.ObserveImport(err == nil)
	if err != nil {
		s.log.Warn("remote import failed",
			zap.String("session", id),
			zap.String("url", rawURL),
			zap.Error(err),
		)
		return nil, fmt.Errorf("import %s: %w", rawURL, err)
	}

	return s.putFile(id, UploadedFile{
		Name:   name,
		Room:   strings.TrimSpace(room),
		Origin: rawURL,
		Data:   data,
	})
}

// Process runs the pipeline over a snapshot of the session's files and keeps
// the report as the session's latest result. The pipeline runs outside the
// store lock; only the result is committed under it.
func (s *Service) Process(id string) (*Report, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rep := Process(sess.Sources())
	s.rec.ObserveRun(len(rep.Processed), len(rep.Warnings), len(rep.Failures),
		len(rep.Table.Rows), time.Since(start))

	err = s.store.Update(id, func(sess *Session) error {
		sess.Report = rep
		sess.ProcessedAt = s.now()
		sess.UpdatedAt = sess.ProcessedAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, w := range rep.Warnings {
		s.log.Warn("file skipped", zap.String("session", id), zap.String("file", w.File), zap.Error(w))
	}
	for _, f := range rep.Failures {
		s.log.Error("file failed", zap.String("session", id), zap.String("file", f.File), zap.Error(f))
	}
	if rep.Empty {
		s.log.Warn("no valid data was processed", zap.String("session", id))
	} else {
		s.log.Info("files processed",
			zap.String("session", id),
			zap.Int("files", len(rep.Processed)),
			zap.Int("rows", len(rep.Table.Rows)),
			zap.Strings("columns", rep.Table.Columns),
		)
	}
	return rep, nil
}

// latest returns the session's latest non-empty combined table.
func (s *Service) latest(id string) (*Session, *Table, error) {
	sess, err := s.store.Get(id)
	if err != nil {
		return nil, nil, err
	}
	if sess.Report == nil || sess.Report.Empty {
		return sess, nil, ErrEmptyResult
	}
	return sess, sess.Report.Table, nil
}

// Summary describes the session's latest combined table.
func (s *Service) Summary(id string) (*Summary, error) {
	sess, t, err := s.latest(id)
	if err != nil {
		return nil, err
	}

	sum := &Summary{
		Rooms:       t.Rooms(),
		Rows:        len(t.Rows),
		Report:      sess.Report,
		ProcessedAt: sess.ProcessedAt,
	}
	sum.From, sum.To, _ = t.DateRange()
	sum.FocusFrom, sum.FocusTo, _ = t.FocusWindow()
	for i, c := range t.Columns {
		n := 0
		for _, r := range t.Rows {
			if !IsMissing(r.Values[i]) {
				n++
			}
		}
		sum.Columns = append(sum.Columns, ColumnSummary{Name: c, Precision: Precision(c), Present: n})
	}
	return sum, nil
}

// Dashboard filters the latest combined table by q and builds, for each
// selected parameter, the series, per-room extrema and seasonal means.
func (s *Service) Dashboard(id string, q Query) (*Dashboard, error) {
	_, t, err := s.latest(id)
	if err != nil {
		return nil, err
	}

	params := q.Parameters
	if params == nil {
		params = t.Columns
	}
	for _, p := range params {
		if _, err := t.Column(p); err != nil {
			return nil, err
		}
	}

	filtered := t.Filter(q.Filter)
	d := &Dashboard{Rooms: filtered.Rooms()}
	d.From, d.To, _ = filtered.DateRange()

	for _, p := range params {
		present, err := filtered.Present(p)
		if err != nil {
			return nil, err
		}
		view := ParameterView{Name: p, Precision: Precision(p)}
		if view.Series, err = present.Series(p); err != nil {
			return nil, err
		}
		if view.Maxima, view.Minima, err = FindExtrema(present, p); err != nil {
			return nil, err
		}
		if view.Seasons, err = SeasonalMeans(present, p); err != nil {
			return nil, err
		}
		d.Parameters = append(d.Parameters, view)
	}
	return d, nil
}

// Export writes the session's latest combined table, narrowed by f, as CSV
// with the columns date, room, then every measurement column.
func (s *Service) Export(id string, f Filter, w io.Writer) error {
	_, t, err := s.latest(id)
	if err != nil {
		return err
	}
	t = t.Filter(f)

	cw := csv.NewWriter(w)
	header := append([]string{DateColumn, RoomColumn}, t.Columns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	for _, r := range t.Rows {
		rec := make([]string, 0, len(header))
		rec = append(rec, r.Date.Format("2006-01-02"), r.Room)
		for _, v := range r.Values {
			if IsMissing(v) {
				rec = append(rec, "")
				continue
			}
			rec = append(rec, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("export: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// PruneSessions evicts sessions past the store's retention limits.
func (s *Service) PruneSessions() int {
	n := s.store.Prune(s.now())
	s.rec.ObservePruned(n)
	if n > 0 {
		s.log.Info("sessions pruned", zap.Int("count", n))
	}
	return n
}

func nameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return rawURL
	}
	return path.Base(u.Path)
}
