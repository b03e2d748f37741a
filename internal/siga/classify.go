package siga

import "strings"

const (
	professorMarker = "Prof."
	roomPrefix      = "Sala "
)

// ClassifyRoomCell turns the text of one schedule cell into a room name.
// Cells usually read "Sala <room>", but some put the professor on the first
// line ("Prof. ...") and the room on the second one.
func ClassifyRoomCell(raw string) string {
	lines := strings.Split(raw, "\n")
	first := strings.TrimSpace(lines[0])
	if strings.HasPrefix(first, professorMarker) {
		if len(lines) < 2 {
			return ""
		}
		return stripRoomPrefix(lines[1])
	}
	return stripRoomPrefix(first)
}

func stripRoomPrefix(s string) string {
	s = strings.TrimSpace(s)
	for strings.HasPrefix(s, roomPrefix) {
		s = strings.TrimSpace(strings.TrimPrefix(s, roomPrefix))
	}
	return s
}
