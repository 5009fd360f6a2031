package weathertext

import "strings"

// DailyEntry is one day of a decoded forecast. Date is always set; the
// remaining fields are optional upstream and stay empty when the text
// carries no line for them.
type DailyEntry struct {
	Date          string
	High          string
	Low           string
	Precipitation string
	Wind          string
}

// Forecast is the decoded form of a forecast payload. Days preserves the
// input line order; entries are never reordered by date value.
type Forecast struct {
	Location string
	Days     []DailyEntry
}

const forecastHeaderPrefix = "Weather forecast for "

// DecodeForecast parses a forecast text into an ordered day sequence.
//
// A date-marker line closes the entry under construction and opens a new
// one; field lines attach to the open entry; end of text flushes the last
// entry. A date with no attached fields still yields an entry. Field lines
// before the first date marker have no entry to attach to and are dropped.
func DecodeForecast(text string) Forecast {
	var forecast Forecast

	var (
		current DailyEntry
		open    bool
	)

	flush := func() {
		if open {
			forecast.Days = append(forecast.Days, current)
			current = DailyEntry{}
			open = false
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := classifyLine(raw)

		switch line.Kind {
		case lineHeader:
			if loc, ok := strings.CutPrefix(line.Text, forecastHeaderPrefix); ok {
				forecast.Location = trimHeaderSuffix(loc)
			}

		case lineDayMarker:
			flush()

			current = DailyEntry{Date: line.Label}
			open = true

		case lineField:
			if !open {
				continue
			}

			applyForecastField(&current, line.Label, line.Value)

		case lineUnrecognized:
		}
	}

	flush()

	return forecast
}

func applyForecastField(entry *DailyEntry, label, value string) {
	switch label {
	case "High":
		entry.High, entry.Low = splitHighLow(value)
	case "Temperature":
		entry.High = value
	case "Precipitation":
		entry.Precipitation = value
	case "Max Wind", "Wind":
		entry.Wind = value
	}
}

// splitHighLow splits "30°C, Low: 20°C" into the two readings. Without
// the secondary delimiter the whole value is the high.
func splitHighLow(value string) (high, low string) {
	before, after, found := strings.Cut(value, ", Low:")
	if !found {
		return strings.TrimSpace(value), ""
	}

	return strings.TrimSpace(before), strings.TrimSpace(after)
}

// trimHeaderSuffix drops the trailing "(N days)" annotation from a
// forecast header location.
func trimHeaderSuffix(loc string) string {
	loc = strings.TrimSpace(loc)

	if idx := strings.LastIndex(loc, "("); idx > 0 {
		loc = strings.TrimSpace(loc[:idx])
	}

	return loc
}
