package weathertext

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodeSnapshot_TypicalPayload(t *testing.T) {
	text := "Current weather for Bangkok, Thailand:\n" +
		"Temperature: 30°C (feels like 34°C)\n" +
		"Humidity: 70%\n" +
		"Wind: 12 km/h at 180°\n" +
		"Pressure: 1012 hPa\n" +
		"Cloud Cover: 40%\n" +
		"Precipitation: 0 mm\n" +
		"Time of Day: Day\n\n" +
		"Data from Open-Meteo API"

	snap := DecodeSnapshot(text, "Bangkok")
	require.Equal(t, "Bangkok, Thailand", snap.Location)
	require.Equal(t, "30°C", snap.Temperature)
	require.Equal(t, "34°C", snap.FeelsLike)
	require.Equal(t, "70%", snap.Humidity)
	require.Equal(t, "12 km/h at 180°", snap.Wind)
	require.Equal(t, "1012 hPa", snap.Pressure)
	require.Equal(t, "40%", snap.CloudCover)
	require.Equal(t, "0 mm", snap.Precipitation)
	require.Equal(t, "Day", snap.TimeOfDay)
}

func TestDecodeSnapshot_MissingFieldsAreUnavailable(t *testing.T) {
	text := "Current weather for Bangkok:\n" +
		"Temperature: 30°C (feels like 34°C)\n" +
		"Humidity: 70%\n"

	snap := DecodeSnapshot(text, "Bangkok")
	require.Equal(t, "Bangkok", snap.Location)
	require.Equal(t, "30°C", snap.Temperature)
	require.Equal(t, "34°C", snap.FeelsLike)
	require.Equal(t, "70%", snap.Humidity)
	require.Equal(t, Unavailable, snap.Wind)
	require.Equal(t, Unavailable, snap.Pressure)
	require.Equal(t, Unavailable, snap.CloudCover)
	require.Equal(t, Unavailable, snap.Precipitation)
	require.Equal(t, Unavailable, snap.TimeOfDay)
}

func TestDecodeSnapshot_NoHeaderFallsBackToRequestedLocation(t *testing.T) {
	snap := DecodeSnapshot("Temperature: 18°C\n", "Reykjavik")
	require.Equal(t, "Reykjavik", snap.Location)
	require.Equal(t, "18°C", snap.Temperature)
	require.Equal(t, Unavailable, snap.FeelsLike)
}

func TestDecodeSnapshot_ReorderedLines(t *testing.T) {
	text := "Humidity: 55%\n" +
		"Current weather for Oslo, Norway:\n" +
		"Temperature: -3°C (feels like -8°C)\n"

	snap := DecodeSnapshot(text, "Oslo")
	require.Equal(t, "Oslo, Norway", snap.Location)
	require.Equal(t, "-3°C", snap.Temperature)
	require.Equal(t, "-8°C", snap.FeelsLike)
	require.Equal(t, "55%", snap.Humidity)
}

func TestDecodeSnapshot_TemperatureWithoutFeelsLike(t *testing.T) {
	snap := DecodeSnapshot("Temperature: 21°C\n", "x")
	require.Equal(t, "21°C", snap.Temperature)
	require.Equal(t, Unavailable, snap.FeelsLike)
}

func TestDecodeSnapshot_ArbitraryTextIsTotal(t *testing.T) {
	for _, text := range []string{
		"",
		"\n\n\n",
		"Error getting weather: location not found",
		"::::::",
		"🌧️🌧️🌧️",
		"Temperature:",
	} {
		snap := DecodeSnapshot(text, "Nowhere")
		require.Equal(t, "Nowhere", snap.Location)
		require.Equal(t, Unavailable, snap.Temperature)
	}
}

func TestDecodeSnapshot_DecoratedLines(t *testing.T) {
	// Decorative markers in front of labels must not defeat matching.
	text := "  🌡️ Temperature: 25°C (feels like 27°C)\n- Humidity: 60%\n"

	snap := DecodeSnapshot(text, "x")
	require.Equal(t, "25°C", snap.Temperature)
	require.Equal(t, "27°C", snap.FeelsLike)
	require.Equal(t, "60%", snap.Humidity)
}
