package sensor

import "time"

// Origin of an uploaded file.
const OriginUpload = "upload"

// UploadedFile is a file held by a session together with its room label.
type UploadedFile struct {
	Name   string    `json:"name"`
	Room   string    `json:"room"`
	Origin string    `json:"origin"`
	Size   int       `json:"size"`
	Added  time.Time `json:"added"`
	Data   []byte    `json:"-"`
}

// Session is the explicit state of one dashboard user: the uploaded files and
// the report of the latest pipeline run.
type Session struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Files     []UploadedFile

	Report      *Report
	ProcessedAt time.Time
}

// Clone returns a copy safe to hand out of the store. File data and the
// report are shared; neither is mutated after creation.
func (s *Session) Clone() *Session {
	c := *s
	c.Files = append([]UploadedFile(nil), s.Files...)
	return &c
}

// Sources returns the session's files as pipeline input, in upload order.
func (s *Session) Sources() []Source {
	out := make([]Source, len(s.Files))
	for i, f := range s.Files {
		out[i] = Source{Name: f.Name, Room: f.Room, Data: f.Data}
	}
	return out
}

func (s *Session) file(name string) (int, bool) {
	for i, f := range s.Files {
		if f.Name == name {
			return i, true
		}
	}
	return -1, false
}

// putFile adds f or replaces the file with the same name in place.
func (s *Session) putFile(f UploadedFile) {
	if i, ok := s.file(f.Name); ok {
		s.Files[i] = f
		return
	}
	s.Files = append(s.Files, f)
}
