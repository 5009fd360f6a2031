package openmeteo

import (
	"fmt"
	"strings"
)

const attribution = "Data from Open-Meteo API"

// FormatCurrent renders current conditions as the line-oriented text
// payload the client-side decoders understand.
func FormatCurrent(place *Place, obs *Observation) string {
	timeOfDay := "Night"
	if obs.IsDay {
		timeOfDay = "Day"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Current weather for %s, %s:\n", place.Name, place.Country)
	fmt.Fprintf(&b, "Temperature: %s (feels like %s)\n", obs.Temperature, obs.FeelsLike)
	fmt.Fprintf(&b, "Humidity: %s\n", obs.Humidity)
	fmt.Fprintf(&b, "Wind: %s at %s\n", obs.WindSpeed, obs.WindDirection)
	fmt.Fprintf(&b, "Pressure: %s\n", obs.Pressure)
	fmt.Fprintf(&b, "Cloud Cover: %s\n", obs.CloudCover)
	fmt.Fprintf(&b, "Precipitation: %s\n", obs.Precipitation)
	fmt.Fprintf(&b, "Time of Day: %s\n", timeOfDay)
	b.WriteString("\n" + attribution)

	return b.String()
}

// FormatForecast renders a daily forecast, one dated block per day.
func FormatForecast(place *Place, days []ForecastDay) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Weather forecast for %s, %s (%d days):\n\n", place.Name, place.Country, len(days))

	for _, day := range days {
		fmt.Fprintf(&b, "📅 %s:\n", day.Date)
		fmt.Fprintf(&b, "  🌡️  High: %s, Low: %s\n", day.High, day.Low)
		fmt.Fprintf(&b, "  🌧️  Precipitation: %s\n", day.Precipitation)
		fmt.Fprintf(&b, "  💨 Max Wind: %s\n\n", day.MaxWind)
	}

	b.WriteString(attribution)

	return b.String()
}

// FormatLocation renders a geocoding match as a two-line payload.
func FormatLocation(place *Place) string {
	return fmt.Sprintf("Location: %s, %s\nCoordinates: %s, %s",
		place.Name, place.Country,
		formatCoordinate(place.Latitude), formatCoordinate(place.Longitude))
}
