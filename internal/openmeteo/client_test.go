package openmeteo

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(slog.New(slog.DiscardHandler))
	c.forecastURL = srv.URL
	c.geocodingURL = srv.URL

	return c
}

func TestGeocode(t *testing.T) {
	var gotQuery url.Values
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"results":[{"name":"Bangkok","country":"Thailand","latitude":13.75,"longitude":100.51667}]}`))
	})

	place, err := c.Geocode(context.Background(), "Bangkok")
	require.NoError(t, err)

	require.Equal(t, "Bangkok", gotQuery.Get("name"))
	require.Equal(t, "1", gotQuery.Get("count"))
	require.Equal(t, "Bangkok", place.Name)
	require.Equal(t, "Thailand", place.Country)
	require.InDelta(t, 13.75, place.Latitude, 1e-9)
	require.InDelta(t, 100.51667, place.Longitude, 1e-9)
}

func TestGeocode_NoResults(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	_, err := c.Geocode(context.Background(), "Atlantis")
	require.ErrorContains(t, err, `"Atlantis" not found`)
}

func TestGeocode_ServerError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.Geocode(context.Background(), "Bangkok")
	require.ErrorContains(t, err, "unexpected status 502")
}

func TestCurrentWeather(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"current": {
				"time": "2025-01-15T12:00",
				"temperature_2m": 30.1,
				"apparent_temperature": 34.0,
				"relative_humidity_2m": 65,
				"precipitation": 0,
				"wind_speed_10m": 12.5,
				"wind_direction_10m": 180,
				"pressure_msl": 1012.3,
				"cloud_cover": 40,
				"is_day": 1
			},
			"current_units": {
				"temperature_2m": "°C",
				"apparent_temperature": "°C",
				"relative_humidity_2m": "%",
				"precipitation": "mm",
				"wind_speed_10m": "km/h",
				"wind_direction_10m": "°",
				"pressure_msl": "hPa",
				"cloud_cover": "%"
			}
		}`))
	})

	obs, err := c.CurrentWeather(context.Background(), 13.75, 100.5)
	require.NoError(t, err)

	// json.Number preserves the API's own rendering, 34.0 included.
	require.Equal(t, "30.1°C", obs.Temperature)
	require.Equal(t, "34.0°C", obs.FeelsLike)
	require.Equal(t, "65%", obs.Humidity)
	require.Equal(t, "12.5km/h", obs.WindSpeed)
	require.Equal(t, "180°", obs.WindDirection)
	require.Equal(t, "1012.3hPa", obs.Pressure)
	require.Equal(t, "40%", obs.CloudCover)
	require.Equal(t, "0mm", obs.Precipitation)
	require.True(t, obs.IsDay)
}

func TestDailyForecast(t *testing.T) {
	var gotQuery url.Values
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{
			"daily": {
				"time": ["2025-01-15", "2025-01-16"],
				"temperature_2m_max": [32.4, 33.1],
				"temperature_2m_min": [24.0, 25.2],
				"precipitation_sum": [0, 2.5],
				"wind_speed_10m_max": [14.8, 11.2]
			},
			"daily_units": {
				"temperature_2m_max": "°C",
				"temperature_2m_min": "°C",
				"precipitation_sum": "mm",
				"wind_speed_10m_max": "km/h"
			}
		}`))
	})

	days, err := c.DailyForecast(context.Background(), 13.75, 100.5, 2)
	require.NoError(t, err)

	require.Equal(t, "2", gotQuery.Get("forecast_days"))
	require.Len(t, days, 2)
	require.Equal(t, ForecastDay{
		Date:          "2025-01-15",
		High:          "32.4°C",
		Low:           "24.0°C",
		Precipitation: "0mm",
		MaxWind:       "14.8km/h",
	}, days[0])
	require.Equal(t, "2025-01-16", days[1].Date)
	require.Equal(t, "2.5mm", days[1].Precipitation)
}

func TestDailyForecast_ClampsDays(t *testing.T) {
	var gotQuery url.Values
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"daily":{"time":[]},"daily_units":{}}`))
	})

	_, err := c.DailyForecast(context.Background(), 0, 0, 99)
	require.NoError(t, err)
	require.Equal(t, "16", gotQuery.Get("forecast_days"))

	_, err = c.DailyForecast(context.Background(), 0, 0, -3)
	require.NoError(t, err)
	require.Equal(t, "1", gotQuery.Get("forecast_days"))
}

func TestDailyForecast_RaggedArrays(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
			"daily": {
				"time": ["2025-01-15", "2025-01-16"],
				"temperature_2m_max": [32.4]
			},
			"daily_units": {"temperature_2m_max": "°C"}
		}`))
	})

	days, err := c.DailyForecast(context.Background(), 0, 0, 2)
	require.NoError(t, err)

	require.Len(t, days, 2)
	require.Equal(t, "32.4°C", days[0].High)
	require.Empty(t, days[1].High)
}
