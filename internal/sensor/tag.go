package sensor

import "strings"

// TagRoom attributes every reading of t to room. An empty (or blank) label
// returns ErrMissingRoomLabel; callers skip the file instead of tagging it.
func TagRoom(t *NormalizedTable, room string) (*LabeledTable, error) {
	room = strings.TrimSpace(room)
	if room == "" {
		return nil, newFileError(t.Name, ErrMissingRoomLabel, nil)
	}
	return &LabeledTable{
		Name:     t.Name,
		Room:     room,
		Fields:   t.Fields,
		Readings: t.Readings,
	}, nil
}
