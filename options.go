package weathermcp

import (
	"log/slog"
	"time"

	"github.com/skybridge-dev/weathermcp-go/internal/config"
)

// Option configures a Client using the functional options pattern.
type Option func(*config.Options)

func applyOptions(opts []Option) *config.Options {
	options := &config.Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *config.Options) {
		o.Logger = logger
	}
}

// WithWorkerCommand sets the worker executable and its arguments. The
// command is resolved through PATH unless it contains a path separator.
func WithWorkerCommand(command string, args ...string) Option {
	return func(o *config.Options) {
		o.WorkerCommand = command
		o.WorkerArgs = args
	}
}

// WithEnv appends "KEY=VALUE" entries to the worker's environment.
func WithEnv(env ...string) Option {
	return func(o *config.Options) {
		o.Env = append(o.Env, env...)
	}
}

// WithCwd sets the working directory for the worker process.
func WithCwd(cwd string) Option {
	return func(o *config.Options) {
		o.Cwd = cwd
	}
}

// WithClientInfo sets the name and version sent as clientInfo during the
// handshake.
func WithClientInfo(name, version string) Option {
	return func(o *config.Options) {
		o.ClientName = name
		o.ClientVersion = version
	}
}

// WithRequestTimeout bounds each request/response exchange.
// The default is 60 seconds.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(o *config.Options) {
		o.RequestTimeout = timeout
	}
}

// WithStderr sets a callback receiving each line of the worker's stderr.
func WithStderr(callback func(line string)) Option {
	return func(o *config.Options) {
		o.Stderr = callback
	}
}
