package sensor

import (
	"regexp"
	"strconv"
	"strings"
)

// roomToken matches a standalone "room" word, optionally followed by a number
// ("Room 12", "room3"). "Bedroom" and "Rooms" do not match.
var roomToken = regexp.MustCompile(`(?i)\broom(?:\s*\d+\b|\b)`)

// CleanHeader strips embedded room identifiers from a measurement column
// header, collapses internal whitespace and trims the result.
//
//	"Temperature Room 12" -> "Temperature"
//	"CO2 room3 (ppm)"     -> "CO2 (ppm)"
//	"Temp(Room 4)"        -> "Temp()"
func CleanHeader(name string) string {
	stripped := roomToken.ReplaceAllString(name, "")
	return strings.Join(strings.Fields(stripped), " ")
}

// cleanHeaders applies CleanHeader to every measurement header, replaces
// names that clean to nothing and makes the result unique. firstIndex is
// the raw file position of raw[0], used to name blank headers.
func cleanHeaders(raw []string, firstIndex int) []string {
	out := make([]string, len(raw))
	seen := make(map[string]int, len(raw))
	taken := make(map[string]struct{}, len(raw)+1)
	taken[DateColumn] = struct{}{}

	for i, h := range raw {
		name := CleanHeader(h)
		if name == "" {
			name = "column_" + strconv.Itoa(firstIndex+i)
		}

		candidate := name
		for {
			if _, dup := taken[candidate]; !dup {
				break
			}
			seen[name]++
			candidate = name + "." + strconv.Itoa(seen[name])
		}
		taken[candidate] = struct{}{}
		out[i] = candidate
	}
	return out
}
