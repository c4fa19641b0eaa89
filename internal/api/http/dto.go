package httpapi

import (
	"time"

	"github.com/i474232898/sensor-dashboard/internal/sensor"
)

const dateLayout = "2006-01-02"

type fileDTO struct {
	Name   string    `json:"name"`
	Room   string    `json:"room"`
	Origin string    `json:"origin"`
	Size   int       `json:"size"`
	Added  time.Time `json:"added"`
}

type sessionDTO struct {
	ID          string     `json:"id"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Files       []fileDTO  `json:"files"`
	ProcessedAt *time.Time `json:"processedAt,omitempty"`
}

type fileIssueDTO struct {
	File    string `json:"file"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type reportDTO struct {
	Empty     bool           `json:"empty"`
	Message   string         `json:"message"`
	Processed []string       `json:"processed"`
	Warnings  []fileIssueDTO `json:"warnings"`
	Failures  []fileIssueDTO `json:"failures"`
	Rows      int            `json:"rows"`
	Columns   []string       `json:"columns"`
	Rooms     []string       `json:"rooms"`
}

type columnDTO struct {
	Name      string `json:"name"`
	Precision int    `json:"precision"`
	Present   int    `json:"present"`
}

type windowDTO struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type summaryDTO struct {
	Columns     []columnDTO `json:"columns"`
	Rooms       []string    `json:"rooms"`
	Rows        int         `json:"rows"`
	Range       windowDTO   `json:"range"`
	Focus       windowDTO   `json:"focus"`
	Report      reportDTO   `json:"report"`
	ProcessedAt time.Time   `json:"processedAt"`
}

type pointDTO struct {
	Date    string  `json:"date"`
	Room    string  `json:"room"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

type seasonDTO struct {
	Year    int     `json:"year"`
	Season  string  `json:"season"`
	Mean    float64 `json:"mean"`
	Display string  `json:"display"`
	Count   int     `json:"count"`
}

type parameterDTO struct {
	Name      string      `json:"name"`
	Precision int         `json:"precision"`
	Series    []pointDTO  `json:"series"`
	Maxima    []pointDTO  `json:"maxima"`
	Minima    []pointDTO  `json:"minima"`
	Seasons   []seasonDTO `json:"seasons"`
}

type dashboardDTO struct {
	Empty      bool           `json:"empty"`
	Rooms      []string       `json:"rooms"`
	Range      *windowDTO     `json:"range,omitempty"`
	Parameters []parameterDTO `json:"parameters"`
}

func toFileDTO(f sensor.UploadedFile) fileDTO {
	return fileDTO{Name: f.Name, Room: f.Room, Origin: f.Origin, Size: f.Size, Added: f.Added}
}

func toSessionDTO(s *sensor.Session) sessionDTO {
	dto := sessionDTO{
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Files:     make([]fileDTO, 0, len(s.Files)),
	}
	for _, f := range s.Files {
		dto.Files = append(dto.Files, toFileDTO(f))
	}
	if !s.ProcessedAt.IsZero() {
		t := s.ProcessedAt
		dto.ProcessedAt = &t
	}
	return dto
}

func toIssues(errs []*sensor.FileError) []fileIssueDTO {
	out := make([]fileIssueDTO, 0, len(errs))
	for _, e := range errs {
		out = append(out, fileIssueDTO{File: e.File, Kind: issueKind(e.Kind), Message: e.Error()})
	}
	return out
}

func issueKind(kind error) string {
	switch kind {
	case sensor.ErrParseFailure:
		return "ParseFailure"
	case sensor.ErrTimestampFailure:
		return "TimestampFailure"
	case sensor.ErrMissingRoomLabel:
		return "MissingRoomLabel"
	default:
		return "Unknown"
	}
}

func toReportDTO(r *sensor.Report) reportDTO {
	dto := reportDTO{
		Empty:     r.Empty,
		Processed: append([]string{}, r.Processed...),
		Warnings:  toIssues(r.Warnings),
		Failures:  toIssues(r.Failures),
		Columns:   []string{},
		Rooms:     []string{},
	}
	if r.Table != nil {
		dto.Rows = len(r.Table.Rows)
		dto.Columns = append(dto.Columns, r.Table.Columns...)
		dto.Rooms = append(dto.Rooms, r.Table.Rooms()...)
	}
	if r.Empty {
		dto.Message = "No valid data was processed."
	} else {
		dto.Message = "Files processed successfully!"
	}
	return dto
}

func toSummaryDTO(s *sensor.Summary) summaryDTO {
	dto := summaryDTO{
		Rooms:       s.Rooms,
		Rows:        s.Rows,
		Range:       windowDTO{From: s.From.Format(dateLayout), To: s.To.Format(dateLayout)},
		Focus:       windowDTO{From: s.FocusFrom.Format(dateLayout), To: s.FocusTo.Format(dateLayout)},
		Report:      toReportDTO(s.Report),
		ProcessedAt: s.ProcessedAt,
	}
	for _, c := range s.Columns {
		dto.Columns = append(dto.Columns, columnDTO{Name: c.Name, Precision: c.Precision, Present: c.Present})
	}
	return dto
}

func toPoints(param string, pts []sensor.SeriesPoint) []pointDTO {
	out := make([]pointDTO, 0, len(pts))
	for _, p := range pts {
		out = append(out, pointDTO{
			Date:    p.Date.Format(dateLayout),
			Room:    p.Room,
			Value:   p.Value,
			Display: sensor.Format(param, p.Value),
		})
	}
	return out
}

func toExtrema(param string, recs []sensor.ExtremumRecord) []pointDTO {
	out := make([]pointDTO, 0, len(recs))
	for _, r := range recs {
		out = append(out, pointDTO{
			Date:    r.Date.Format(dateLayout),
			Room:    r.Room,
			Value:   r.Value,
			Display: sensor.Format(param, r.Value),
		})
	}
	return out
}

func toDashboardDTO(d *sensor.Dashboard) dashboardDTO {
	dto := dashboardDTO{
		Empty:      len(d.Rooms) == 0,
		Rooms:      append([]string{}, d.Rooms...),
		Parameters: make([]parameterDTO, 0, len(d.Parameters)),
	}
	if !d.From.IsZero() {
		dto.Range = &windowDTO{From: d.From.Format(dateLayout), To: d.To.Format(dateLayout)}
	}
	for _, p := range d.Parameters {
		pd := parameterDTO{
			Name:      p.Name,
			Precision: p.Precision,
			Series:    toPoints(p.Name, p.Series),
			Maxima:    toExtrema(p.Name, p.Maxima),
			Minima:    toExtrema(p.Name, p.Minima),
			Seasons:   make([]seasonDTO, 0, len(p.Seasons)),
		}
		for _, s := range p.Seasons {
			pd.Seasons = append(pd.Seasons, seasonDTO{
				Year:    s.Year,
				Season:  string(s.Season),
				Mean:    s.Mean,
				Display: sensor.Format(p.Name, s.Mean),
				Count:   s.Count,
			})
		}
		dto.Parameters = append(dto.Parameters, pd)
	}
	return dto
}
