package weathermcp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/skybridge-dev/weathermcp-go/internal/config"
	"github.com/skybridge-dev/weathermcp-go/internal/errors"
	"github.com/skybridge-dev/weathermcp-go/internal/rpc"
	"github.com/skybridge-dev/weathermcp-go/internal/session"
	"github.com/skybridge-dev/weathermcp-go/internal/subprocess"
	"github.com/skybridge-dev/weathermcp-go/weathertext"
)

// Tool describes one tool advertised by the worker.
type Tool = session.Tool

// Weather tool names implemented by the bundled worker.
const (
	ToolCurrentWeather  = "get_current_weather"
	ToolWeatherForecast = "get_weather_forecast"
	ToolSearchLocation  = "search_location"
)

const (
	defaultForecastDays = 7
	maxForecastDays     = 16
)

// Client is the high-level weather client. It owns one worker process;
// clients are single-use: after Close, create a new one with New.
type Client struct {
	log     *slog.Logger
	options *config.Options

	mu      sync.Mutex
	started bool
	worker  *subprocess.Worker
	conn    *rpc.Conn
	session *session.Session
}

// New creates a client. The worker is not spawned until Start.
func New(opts ...Option) *Client {
	options := applyOptions(opts)

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	return &Client{
		log:     log,
		options: options,
	}
}

// Start spawns the worker and performs the handshake.
//
// Returns WorkerNotFoundError or SpawnError when the process cannot be
// launched and HandshakeError when the initialize exchange fails; in
// every failure case the process has been torn down. A failed Start is an
// expected, recoverable outcome: inspect the error, fix the environment,
// and start a fresh client.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()

	if c.started {
		c.mu.Unlock()

		return errors.ErrAlreadyStarted
	}

	if c.session != nil && c.session.State() == session.Closed {
		c.mu.Unlock()

		return errors.ErrSessionClosed
	}

	if c.options.WorkerCommand == "" {
		c.mu.Unlock()

		return fmt.Errorf("no worker command configured, use WithWorkerCommand")
	}

	worker := subprocess.NewWorker(c.log, c.options)

	if err := worker.Start(ctx); err != nil {
		c.mu.Unlock()

		return err
	}

	conn := rpc.NewConn(c.log, worker, c.options.RequestTimeout)
	conn.Start(ctx)

	sess := session.New(c.log, conn, c.options)

	c.worker = worker
	c.conn = conn
	c.session = sess
	c.started = true
	c.mu.Unlock()

	if err := sess.Start(ctx); err != nil {
		// Session.Start already closed the connection and the worker.
		c.mu.Lock()
		c.started = false
		c.mu.Unlock()

		return err
	}

	c.log.Info("Weather client connected", "worker", c.options.WorkerCommand)

	return nil
}

// CallTool invokes a named tool and returns the text of the first content
// block of its result. Additional blocks, if any, are ignored.
func (c *Client) CallTool(ctx context.Context, name string, arguments map[string]any) (string, error) {
	sess := c.currentSession()
	if sess == nil {
		return "", errors.ErrNotConnected
	}

	return sess.Invoke(ctx, name, arguments)
}

// ListTools returns the tools the worker advertises.
func (c *Client) ListTools(ctx context.Context) ([]Tool, error) {
	sess := c.currentSession()
	if sess == nil {
		return nil, errors.ErrNotConnected
	}

	return sess.ListTools(ctx)
}

// CurrentWeather fetches and decodes current conditions for a location.
//
// The raw text is decoded tolerantly: fields the worker did not report
// come back as weathertext.Unavailable rather than an error.
func (c *Client) CurrentWeather(ctx context.Context, location string) (weathertext.Snapshot, error) {
	text, err := c.CallTool(ctx, ToolCurrentWeather, map[string]any{"location": location})
	if err != nil {
		return weathertext.Snapshot{}, err
	}

	return weathertext.DecodeSnapshot(text, location), nil
}

// Forecast fetches and decodes a daily forecast. Days outside 1..16 are
// clamped; zero means 7 days.
func (c *Client) Forecast(ctx context.Context, location string, days int) (weathertext.Forecast, error) {
	days = clampDays(days)

	text, err := c.CallTool(ctx, ToolWeatherForecast, map[string]any{
		"location": location,
		"days":     days,
	})
	if err != nil {
		return weathertext.Forecast{}, err
	}

	return weathertext.DecodeForecast(text), nil
}

// SearchLocation resolves a location name to coordinates.
func (c *Client) SearchLocation(ctx context.Context, query string) (weathertext.LocationMatch, error) {
	text, err := c.CallTool(ctx, ToolSearchLocation, map[string]any{"location": query})
	if err != nil {
		return weathertext.LocationMatch{}, err
	}

	return weathertext.DecodeLocation(text), nil
}

// Close shuts the session and the worker down. Every outstanding call
// fails with ErrTransportClosed. Safe to call multiple times.
func (c *Client) Close() error {
	c.mu.Lock()
	sess := c.session
	c.started = false
	c.mu.Unlock()

	if sess == nil {
		return nil
	}

	return sess.Close()
}

func (c *Client) currentSession() *session.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started {
		return nil
	}

	return c.session
}

func clampDays(days int) int {
	switch {
	case days <= 0:
		return defaultForecastDays
	case days > maxForecastDays:
		return maxForecastDays
	default:
		return days
	}
}
