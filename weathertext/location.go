package weathertext

import (
	"strconv"
	"strings"
)

// LocationMatch is the decoded form of a location search payload.
// Coordinates that fail to parse are zero, never an error: the diagnostic
// line is human-readable, not a hard contract.
type LocationMatch struct {
	Name      string
	Country   string
	Latitude  float64
	Longitude float64
}

// DecodeLocation parses a location search text into a LocationMatch.
//
// The "Location:" line is split into name and country on its first comma;
// the "Coordinates:" line is split into two numeric fields the same way.
func DecodeLocation(text string) LocationMatch {
	var match LocationMatch

	for _, raw := range strings.Split(text, "\n") {
		line := classifyLine(raw)
		if line.Kind != lineField {
			continue
		}

		switch line.Label {
		case "Location":
			name, country, _ := strings.Cut(line.Value, ",")
			match.Name = strings.TrimSpace(name)
			match.Country = strings.TrimSpace(country)

		case "Coordinates":
			lat, lon, _ := strings.Cut(line.Value, ",")
			match.Latitude = parseCoordinate(lat)
			match.Longitude = parseCoordinate(lon)
		}
	}

	return match
}

func parseCoordinate(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}

	return v
}
