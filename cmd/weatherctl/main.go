// Command weatherctl is an interactive client for a stdio weather
// worker. It spawns the worker, performs the MCP handshake, and offers
// a small menu for current conditions, forecasts, and location search.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"

	weathermcp "github.com/skybridge-dev/weathermcp-go"
	"github.com/skybridge-dev/weathermcp-go/internal/config"
	"github.com/skybridge-dev/weathermcp-go/weathertext"
)

const defaultWorker = "weather-worker"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func main() {
	settings, err := config.LoadSettings(".")
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("config: "+err.Error()))
		os.Exit(1)
	}

	worker := flag.String("worker", "", "worker command (overrides config)")
	days := flag.Int("days", 0, "default forecast days (overrides config)")
	timeout := flag.Duration("timeout", 0, "request timeout (overrides config)")
	verbose := flag.Bool("verbose", settings.Verbose, "enable debug logging on stderr")
	flag.Parse()

	if *worker != "" {
		settings.Worker = *worker
		settings.Args = flag.Args()
	}
	if settings.Worker == "" {
		settings.Worker = defaultWorker
	}
	if *days != 0 {
		settings.ForecastDays = *days
	}
	if *timeout != 0 {
		settings.TimeoutSeconds = int(timeout.Seconds())
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, settings); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("weatherctl: "+err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, settings *config.Settings) error {
	opts := []weathermcp.Option{
		weathermcp.WithLogger(logger),
		weathermcp.WithWorkerCommand(settings.Worker, settings.Args...),
		weathermcp.WithClientInfo("weatherctl", "1.0.0"),
	}
	if settings.TimeoutSeconds > 0 {
		opts = append(opts, weathermcp.WithRequestTimeout(time.Duration(settings.TimeoutSeconds)*time.Second))
	}

	client := weathermcp.New(opts...)

	fmt.Println(titleStyle.Render("Weather MCP Client"))
	fmt.Println(strings.Repeat("=", 40))
	fmt.Printf("Starting worker: %s\n", settings.Worker)

	if err := client.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	fmt.Println(okStyle.Render("Connected to weather worker"))

	if tools, err := client.ListTools(ctx); err == nil {
		names := make([]string, 0, len(tools))
		for _, tool := range tools {
			names = append(names, tool.Name)
		}
		fmt.Printf("Available tools: %s\n", strings.Join(names, ", "))
	} else {
		logger.Warn("failed to list tools", "error", err)
	}

	return menuLoop(ctx, client, settings, bufio.NewScanner(os.Stdin))
}

func menuLoop(ctx context.Context, client *weathermcp.Client, settings *config.Settings, in *bufio.Scanner) error {
	for {
		fmt.Println()
		fmt.Println(headerStyle.Render("Weather Client Commands:"))
		fmt.Println("1. Get current weather")
		fmt.Println("2. Get weather forecast")
		fmt.Println("3. Search location")
		fmt.Println("4. Exit")

		choice, ok := prompt(in, "Enter your choice (1-4): ")
		if !ok {
			return nil
		}

		switch choice {
		case "1":
			location, ok := prompt(in, "Enter location: ")
			if !ok {
				return nil
			}
			if location == "" {
				continue
			}

			snap, err := client.CurrentWeather(ctx, location)
			if err != nil {
				fmt.Println(errorStyle.Render("Error: " + err.Error()))

				continue
			}
			fmt.Print(renderSnapshot(snap))

		case "2":
			location, ok := prompt(in, "Enter location: ")
			if !ok {
				return nil
			}
			if location == "" {
				continue
			}

			answer, ok := prompt(in, "Enter number of days (1-16, default 7): ")
			if !ok {
				return nil
			}

			forecast, err := client.Forecast(ctx, location, parseDays(answer, settings.ForecastDays))
			if err != nil {
				fmt.Println(errorStyle.Render("Error: " + err.Error()))

				continue
			}
			fmt.Print(renderForecast(forecast))

		case "3":
			location, ok := prompt(in, "Enter location to search: ")
			if !ok {
				return nil
			}
			if location == "" {
				continue
			}

			match, err := client.SearchLocation(ctx, location)
			if err != nil {
				fmt.Println(errorStyle.Render("Error: " + err.Error()))

				continue
			}
			fmt.Print(renderLocation(match))

		case "4":
			fmt.Println("Goodbye!")

			return nil

		default:
			fmt.Println("Invalid choice. Please try again.")
		}
	}
}

func prompt(in *bufio.Scanner, label string) (string, bool) {
	fmt.Print(label)

	if !in.Scan() {
		return "", false
	}

	return strings.TrimSpace(in.Text()), true
}

// parseDays interprets the user's day-count answer. Blank or invalid
// input falls back to the configured default, then to the library's.
func parseDays(answer string, configured int) int {
	if n, err := strconv.Atoi(answer); err == nil && n > 0 {
		return n
	}

	return configured
}

func renderSnapshot(snap weathertext.Snapshot) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Current weather for "+snap.Location) + "\n")

	for _, row := range []struct{ label, value string }{
		{"Temperature", snap.Temperature},
		{"Feels like", snap.FeelsLike},
		{"Humidity", snap.Humidity},
		{"Wind", snap.Wind},
		{"Pressure", snap.Pressure},
		{"Cloud cover", snap.CloudCover},
		{"Precipitation", snap.Precipitation},
		{"Time of day", snap.TimeOfDay},
	} {
		fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render(row.label+":"), row.value)
	}

	return b.String()
}

func renderForecast(forecast weathertext.Forecast) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Forecast for "+forecast.Location) + "\n")

	for _, day := range forecast.Days {
		b.WriteString(titleStyle.Render(day.Date) + "\n")

		for _, row := range []struct{ label, value string }{
			{"High", day.High},
			{"Low", day.Low},
			{"Precipitation", day.Precipitation},
			{"Wind", day.Wind},
		} {
			if row.value == "" {
				continue
			}
			fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render(row.label+":"), row.value)
		}
	}

	return b.String()
}

func renderLocation(match weathertext.LocationMatch) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Location: "+match.Name+", "+match.Country) + "\n")
	fmt.Fprintf(&b, "  %s %s, %s\n", labelStyle.Render("Coordinates:"),
		strconv.FormatFloat(match.Latitude, 'f', -1, 64),
		strconv.FormatFloat(match.Longitude, 'f', -1, 64))

	return b.String()
}
