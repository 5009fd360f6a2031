package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skybridge-dev/weathermcp-go/weathertext"
)

func TestParseDays(t *testing.T) {
	require.Equal(t, 5, parseDays("5", 7))
	require.Equal(t, 7, parseDays("", 7))
	require.Equal(t, 7, parseDays("soon", 7))
	require.Equal(t, 7, parseDays("-2", 7))
	require.Equal(t, 0, parseDays("", 0))
}

func TestRenderSnapshot(t *testing.T) {
	out := renderSnapshot(weathertext.Snapshot{
		Location:    "Bangkok, Thailand",
		Temperature: "30.1°C",
		FeelsLike:   weathertext.Unavailable,
		TimeOfDay:   "Day",
	})

	require.Contains(t, out, "Current weather for Bangkok, Thailand")
	require.Contains(t, out, "Temperature: 30.1°C")
	require.Contains(t, out, "Feels like: unavailable")
	require.Contains(t, out, "Time of day: Day")
}

func TestRenderForecast_SkipsEmptyFields(t *testing.T) {
	out := renderForecast(weathertext.Forecast{
		Location: "Bangkok, Thailand",
		Days: []weathertext.DailyEntry{
			{Date: "2025-01-15", High: "32.4°C", Low: "24.0°C"},
			{Date: "2025-01-16"},
		},
	})

	require.Contains(t, out, "2025-01-15")
	require.Contains(t, out, "High: 32.4°C")
	require.Contains(t, out, "2025-01-16")
	require.NotContains(t, out, "Precipitation:")
}

func TestRenderLocation(t *testing.T) {
	out := renderLocation(weathertext.LocationMatch{
		Name:      "Bangkok",
		Country:   "Thailand",
		Latitude:  13.75,
		Longitude: 100.51667,
	})

	require.Contains(t, out, "Location: Bangkok, Thailand")
	require.Contains(t, out, "Coordinates: 13.75, 100.51667")
}
