package openmeteo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skybridge-dev/weathermcp-go/weathertext"
)

var bangkok = &Place{
	Name:      "Bangkok",
	Country:   "Thailand",
	Latitude:  13.75,
	Longitude: 100.51667,
}

// The rendered text must survive the client-side decoders unchanged;
// these tests close that loop.

func TestFormatCurrent_RoundTrip(t *testing.T) {
	obs := &Observation{
		Time:          "2025-01-15T12:00",
		Temperature:   "30.1°C",
		FeelsLike:     "34.0°C",
		Humidity:      "65%",
		Precipitation: "0mm",
		WindSpeed:     "12.5km/h",
		WindDirection: "180°",
		Pressure:      "1012.3hPa",
		CloudCover:    "40%",
		IsDay:         true,
	}

	text := FormatCurrent(bangkok, obs)
	snap := weathertext.DecodeSnapshot(text, "ignored fallback")

	require.Equal(t, "Bangkok, Thailand", snap.Location)
	require.Equal(t, "30.1°C", snap.Temperature)
	require.Equal(t, "34.0°C", snap.FeelsLike)
	require.Equal(t, "65%", snap.Humidity)
	require.Equal(t, "12.5km/h at 180°", snap.Wind)
	require.Equal(t, "1012.3hPa", snap.Pressure)
	require.Equal(t, "40%", snap.CloudCover)
	require.Equal(t, "0mm", snap.Precipitation)
	require.Equal(t, "Day", snap.TimeOfDay)
}

func TestFormatCurrent_Night(t *testing.T) {
	text := FormatCurrent(bangkok, &Observation{IsDay: false})

	snap := weathertext.DecodeSnapshot(text, "")
	require.Equal(t, "Night", snap.TimeOfDay)
}

func TestFormatForecast_RoundTrip(t *testing.T) {
	days := []ForecastDay{
		{Date: "2025-01-15", High: "32.4°C", Low: "24.0°C", Precipitation: "0mm", MaxWind: "14.8km/h"},
		{Date: "2025-01-16", High: "33.1°C", Low: "25.2°C", Precipitation: "2.5mm", MaxWind: "11.2km/h"},
	}

	text := FormatForecast(bangkok, days)
	forecast := weathertext.DecodeForecast(text)

	require.Equal(t, "Bangkok, Thailand", forecast.Location)
	require.Len(t, forecast.Days, 2)

	require.Equal(t, weathertext.DailyEntry{
		Date:          "2025-01-15",
		High:          "32.4°C",
		Low:           "24.0°C",
		Precipitation: "0mm",
		Wind:          "14.8km/h",
	}, forecast.Days[0])
	require.Equal(t, "2025-01-16", forecast.Days[1].Date)
}

func TestFormatForecast_Empty(t *testing.T) {
	text := FormatForecast(bangkok, nil)

	forecast := weathertext.DecodeForecast(text)
	require.Equal(t, "Bangkok, Thailand", forecast.Location)
	require.Empty(t, forecast.Days)
}

func TestFormatLocation_RoundTrip(t *testing.T) {
	text := FormatLocation(bangkok)

	match := weathertext.DecodeLocation(text)
	require.Equal(t, "Bangkok", match.Name)
	require.Equal(t, "Thailand", match.Country)
	require.InDelta(t, 13.75, match.Latitude, 1e-9)
	require.InDelta(t, 100.51667, match.Longitude, 1e-9)
}
