// Command weather-worker is a stdio MCP worker exposing weather tools
// backed by the free Open-Meteo API. It is the bundled counterpart for
// the weathermcp client, but speaks plain MCP and works with any client.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	weathermcp "github.com/skybridge-dev/weathermcp-go"
	"github.com/skybridge-dev/weathermcp-go/internal/openmeteo"
)

const (
	serverName    = "weather-worker"
	serverVersion = "1.0.0"

	defaultForecastDays = 7
)

func main() {
	verbose := flag.Bool("verbose", false, "enable debug logging on stderr")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}

	// Stdout carries the protocol; all logging goes to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Error("worker exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	weather := openmeteo.NewClient(logger)
	server := newServer(logger, weather)

	logger.Info("serving weather tools on stdio", "server", serverName, "version", serverVersion)

	return server.Run(ctx, &mcp.StdioTransport{})
}

func newServer(logger *slog.Logger, weather *openmeteo.Client) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	server.AddTool(&mcp.Tool{
		Name:        weathermcp.ToolCurrentWeather,
		Description: "Get current weather conditions for a location",
		InputSchema: locationSchema("City name, e.g., 'Bangkok, Thailand' or 'New York'"),
	}, handleTool(logger, "Error getting weather", func(ctx context.Context, args toolArgs) (string, error) {
		place, err := weather.Geocode(ctx, args.Location)
		if err != nil {
			return "", err
		}

		obs, err := weather.CurrentWeather(ctx, place.Latitude, place.Longitude)
		if err != nil {
			return "", err
		}

		return openmeteo.FormatCurrent(place, obs), nil
	}))

	server.AddTool(&mcp.Tool{
		Name:        weathermcp.ToolWeatherForecast,
		Description: "Get weather forecast for a location",
		InputSchema: forecastSchema(),
	}, handleTool(logger, "Error getting forecast", func(ctx context.Context, args toolArgs) (string, error) {
		place, err := weather.Geocode(ctx, args.Location)
		if err != nil {
			return "", err
		}

		days := args.Days
		if days == 0 {
			days = defaultForecastDays
		}

		forecast, err := weather.DailyForecast(ctx, place.Latitude, place.Longitude, days)
		if err != nil {
			return "", err
		}

		return openmeteo.FormatForecast(place, forecast), nil
	}))

	server.AddTool(&mcp.Tool{
		Name:        weathermcp.ToolSearchLocation,
		Description: "Search for location coordinates",
		InputSchema: locationSchema("Location name to search for"),
	}, handleTool(logger, "Error searching location", func(ctx context.Context, args toolArgs) (string, error) {
		place, err := weather.Geocode(ctx, args.Location)
		if err != nil {
			return "", err
		}

		return openmeteo.FormatLocation(place), nil
	}))

	return server
}

type toolArgs struct {
	Location string `json:"location"`
	Days     int    `json:"days"`
}

type toolFunc func(ctx context.Context, args toolArgs) (string, error)

// handleTool adapts a toolFunc to the SDK handler shape. Failures come
// back as error results with a human-readable message, never as protocol
// errors, so remote callers always get renderable text.
func handleTool(logger *slog.Logger, errPrefix string, fn toolFunc) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args toolArgs
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
				return errorResult(errPrefix + ": invalid arguments"), nil
			}
		}

		if args.Location == "" {
			return errorResult("Error: Location is required"), nil
		}

		text, err := fn(ctx, args)
		if err != nil {
			logger.Warn("tool call failed", "tool", req.Params.Name, "error", err)

			return errorResult(errPrefix + ": " + err.Error()), nil
		}

		return textResult(text), nil
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	result := textResult(text)
	result.IsError = true

	return result
}

func locationSchema(description string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"location": {Type: "string", Description: description},
		},
		Required: []string{"location"},
	}
}

func forecastSchema() *jsonschema.Schema {
	schema := locationSchema("City name, e.g., 'Bangkok, Thailand' or 'New York'")
	schema.Properties["days"] = &jsonschema.Schema{
		Type:        "integer",
		Description: "Number of forecast days (1-16)",
	}

	return schema
}
