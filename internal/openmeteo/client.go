package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultForecastURL  = "https://api.open-meteo.com/v1/forecast"
	defaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"

	defaultHTTPTimeout = 15 * time.Second

	// Open-Meteo serves at most 16 forecast days.
	MaxForecastDays = 16
)

// Place is a resolved location from the geocoding API.
type Place struct {
	Name      string
	Country   string
	Latitude  float64
	Longitude float64
}

// Observation is a set of current conditions. Each reading is the API
// value joined with its unit, e.g. "31.4°C" or "65%".
type Observation struct {
	Time          string
	Temperature   string
	FeelsLike     string
	Humidity      string
	Precipitation string
	WindSpeed     string
	WindDirection string
	Pressure      string
	CloudCover    string
	IsDay         bool
}

// ForecastDay is one day of a daily forecast, readings unit-joined the
// same way as Observation.
type ForecastDay struct {
	Date          string
	High          string
	Low           string
	Precipitation string
	MaxWind       string
}

// Client calls the Open-Meteo forecast and geocoding endpoints.
type Client struct {
	log          *slog.Logger
	httpClient   *http.Client
	forecastURL  string
	geocodingURL string
}

// NewClient creates a Client with the production endpoints.
func NewClient(logger *slog.Logger) *Client {
	return &Client{
		log:          logger.With("component", "openmeteo"),
		httpClient:   &http.Client{Timeout: defaultHTTPTimeout},
		forecastURL:  defaultForecastURL,
		geocodingURL: defaultGeocodingURL,
	}
}

type geocodingResult struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type geocodingResponse struct {
	Results []geocodingResult `json:"results"`
}

// Geocode resolves a free-form location name to coordinates. The first
// match wins; no match is an error.
func (c *Client) Geocode(ctx context.Context, location string) (*Place, error) {
	query := url.Values{
		"name":     {location},
		"count":    {"1"},
		"language": {"en"},
		"format":   {"json"},
	}

	var decoded geocodingResponse
	if err := c.getJSON(ctx, c.geocodingURL, query, &decoded); err != nil {
		return nil, err
	}

	if len(decoded.Results) == 0 {
		return nil, fmt.Errorf("location %q not found", location)
	}

	result := decoded.Results[0]
	if result.Name == "" {
		result.Name = location
	}

	c.log.Debug("geocoded location",
		"query", location,
		"name", result.Name,
		"latitude", result.Latitude,
		"longitude", result.Longitude)

	return &Place{
		Name:      result.Name,
		Country:   result.Country,
		Latitude:  result.Latitude,
		Longitude: result.Longitude,
	}, nil
}

// json.Number keeps the API's own formatting of each reading, so "30"
// and "30.0" survive the trip to text unchanged.
type currentData struct {
	Time          string      `json:"time"`
	Temperature   json.Number `json:"temperature_2m"`
	FeelsLike     json.Number `json:"apparent_temperature"`
	Humidity      json.Number `json:"relative_humidity_2m"`
	Precipitation json.Number `json:"precipitation"`
	WindSpeed     json.Number `json:"wind_speed_10m"`
	WindDirection json.Number `json:"wind_direction_10m"`
	Pressure      json.Number `json:"pressure_msl"`
	CloudCover    json.Number `json:"cloud_cover"`
	IsDay         int         `json:"is_day"`
}

type currentUnits struct {
	Temperature   string `json:"temperature_2m"`
	FeelsLike     string `json:"apparent_temperature"`
	Humidity      string `json:"relative_humidity_2m"`
	Precipitation string `json:"precipitation"`
	WindSpeed     string `json:"wind_speed_10m"`
	WindDirection string `json:"wind_direction_10m"`
	Pressure      string `json:"pressure_msl"`
	CloudCover    string `json:"cloud_cover"`
}

type currentResponse struct {
	Current currentData  `json:"current"`
	Units   currentUnits `json:"current_units"`
}

// CurrentWeather fetches current conditions for the given coordinates.
func (c *Client) CurrentWeather(ctx context.Context, latitude, longitude float64) (*Observation, error) {
	query := url.Values{
		"latitude":  {formatCoordinate(latitude)},
		"longitude": {formatCoordinate(longitude)},
		"current":   {"temperature_2m,relative_humidity_2m,apparent_temperature,is_day,precipitation,cloud_cover,pressure_msl,wind_speed_10m,wind_direction_10m"},
		"timezone":  {"auto"},
	}

	var decoded currentResponse
	if err := c.getJSON(ctx, c.forecastURL, query, &decoded); err != nil {
		return nil, err
	}

	cur, units := decoded.Current, decoded.Units

	return &Observation{
		Time:          cur.Time,
		Temperature:   joinUnit(cur.Temperature, units.Temperature),
		FeelsLike:     joinUnit(cur.FeelsLike, units.FeelsLike),
		Humidity:      joinUnit(cur.Humidity, units.Humidity),
		Precipitation: joinUnit(cur.Precipitation, units.Precipitation),
		WindSpeed:     joinUnit(cur.WindSpeed, units.WindSpeed),
		WindDirection: joinUnit(cur.WindDirection, units.WindDirection),
		Pressure:      joinUnit(cur.Pressure, units.Pressure),
		CloudCover:    joinUnit(cur.CloudCover, units.CloudCover),
		IsDay:         cur.IsDay != 0,
	}, nil
}

type dailyData struct {
	Time          []string      `json:"time"`
	High          []json.Number `json:"temperature_2m_max"`
	Low           []json.Number `json:"temperature_2m_min"`
	Precipitation []json.Number `json:"precipitation_sum"`
	MaxWind       []json.Number `json:"wind_speed_10m_max"`
}

type dailyUnits struct {
	High          string `json:"temperature_2m_max"`
	Low           string `json:"temperature_2m_min"`
	Precipitation string `json:"precipitation_sum"`
	MaxWind       string `json:"wind_speed_10m_max"`
}

type dailyResponse struct {
	Daily dailyData  `json:"daily"`
	Units dailyUnits `json:"daily_units"`
}

// DailyForecast fetches a daily forecast. Days outside 1..MaxForecastDays
// are clamped.
func (c *Client) DailyForecast(ctx context.Context, latitude, longitude float64, days int) ([]ForecastDay, error) {
	if days < 1 {
		days = 1
	}
	if days > MaxForecastDays {
		days = MaxForecastDays
	}

	query := url.Values{
		"latitude":      {formatCoordinate(latitude)},
		"longitude":     {formatCoordinate(longitude)},
		"daily":         {"temperature_2m_max,temperature_2m_min,precipitation_sum,wind_speed_10m_max"},
		"timezone":      {"auto"},
		"forecast_days": {strconv.Itoa(days)},
	}

	var decoded dailyResponse
	if err := c.getJSON(ctx, c.forecastURL, query, &decoded); err != nil {
		return nil, err
	}

	daily, units := decoded.Daily, decoded.Units

	forecast := make([]ForecastDay, 0, len(daily.Time))
	for i, date := range daily.Time {
		day := ForecastDay{Date: date}

		if i < len(daily.High) {
			day.High = joinUnit(daily.High[i], units.High)
		}
		if i < len(daily.Low) {
			day.Low = joinUnit(daily.Low[i], units.Low)
		}
		if i < len(daily.Precipitation) {
			day.Precipitation = joinUnit(daily.Precipitation[i], units.Precipitation)
		}
		if i < len(daily.MaxWind) {
			day.MaxWind = joinUnit(daily.MaxWind[i], units.MaxWind)
		}

		forecast = append(forecast, day)
	}

	return forecast, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func joinUnit(value json.Number, unit string) string {
	return value.String() + unit
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
