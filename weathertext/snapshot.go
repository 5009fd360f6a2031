package weathertext

import "strings"

// Unavailable marks a snapshot field the worker's text did not carry.
const Unavailable = "unavailable"

// Snapshot is the decoded form of a current-conditions payload. Every
// field is either the value extracted from the text or Unavailable.
type Snapshot struct {
	Location      string
	Temperature   string
	FeelsLike     string
	Humidity      string
	Wind          string
	Pressure      string
	CloudCover    string
	Precipitation string
	TimeOfDay     string
}

const currentHeaderPrefix = "Current weather for "

// DecodeSnapshot parses a current-conditions text into a Snapshot.
//
// Lines may be missing or reordered. The location comes from the
// "Current weather for <location>:" header; requestedLocation is the
// fallback when no header line is present.
func DecodeSnapshot(text, requestedLocation string) Snapshot {
	snap := Snapshot{
		Location:      requestedLocation,
		Temperature:   Unavailable,
		FeelsLike:     Unavailable,
		Humidity:      Unavailable,
		Wind:          Unavailable,
		Pressure:      Unavailable,
		CloudCover:    Unavailable,
		Precipitation: Unavailable,
		TimeOfDay:     Unavailable,
	}

	for _, raw := range strings.Split(text, "\n") {
		line := classifyLine(raw)

		switch line.Kind {
		case lineHeader:
			if loc, ok := strings.CutPrefix(line.Text, currentHeaderPrefix); ok {
				snap.Location = strings.TrimSpace(loc)
			}

		case lineField:
			snap.applyField(line.Label, line.Value)

		case lineDayMarker, lineUnrecognized:
			// Not part of the snapshot format.
		}
	}

	return snap
}

func (s *Snapshot) applyField(label, value string) {
	switch label {
	case "Temperature":
		s.Temperature, s.FeelsLike = splitFeelsLike(value)
	case "Humidity":
		s.Humidity = value
	case "Wind":
		s.Wind = value
	case "Pressure":
		s.Pressure = value
	case "Cloud Cover":
		s.CloudCover = value
	case "Precipitation":
		s.Precipitation = value
	case "Time of Day":
		s.TimeOfDay = value
	}
}

// splitFeelsLike splits "30°C (feels like 34°C)" into its two readings.
// Without the secondary delimiter the whole value is the temperature and
// feels-like stays Unavailable.
func splitFeelsLike(value string) (temperature, feelsLike string) {
	temperature = value
	feelsLike = Unavailable

	before, after, found := strings.Cut(value, "(feels like")
	if !found {
		return temperature, feelsLike
	}

	temperature = strings.TrimSpace(before)

	after = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(after), ")"))
	if after != "" {
		feelsLike = after
	}

	if temperature == "" {
		temperature = Unavailable
	}

	return temperature, feelsLike
}
