// Package config provides configuration types for the weather bridge.
package config

import (
	"context"
	"log/slog"
	"time"
)

// DefaultRequestTimeout bounds how long a single request waits for its
// response before failing with ErrRequestTimeout.
const DefaultRequestTimeout = 60 * time.Second

// Options carries the bridge configuration assembled by the public
// functional options.
type Options struct {
	// Logger receives structured debug/info/warn/error output.
	// Nil means silent operation.
	Logger *slog.Logger

	// WorkerCommand is the worker executable path; WorkerArgs are passed
	// to it verbatim.
	WorkerCommand string
	WorkerArgs    []string

	// Env entries are appended to the inherited environment, "KEY=VALUE".
	Env []string

	// Cwd is the worker's working directory. Empty means inherit.
	Cwd string

	// ClientName and ClientVersion populate clientInfo during initialize.
	ClientName    string
	ClientVersion string

	// RequestTimeout bounds each request/response exchange.
	// Zero means DefaultRequestTimeout.
	RequestTimeout time.Duration

	// Stderr, if set, receives each line of the worker's stderr.
	Stderr func(line string)
}

// Transport is the interface between the correlation layer and the worker
// process. The default implementation is subprocess.Worker; tests inject
// channel-backed fakes.
type Transport interface {
	// Start spawns the worker and wires its pipes.
	Start(ctx context.Context) error

	// ReadLines returns the sole line channel for the worker's stdout,
	// plus an error channel. One value per framed message, newline
	// stripped. Both channels close when the stream ends.
	ReadLines(ctx context.Context) (<-chan []byte, <-chan error)

	// Send writes one framed message. A trailing newline is appended if
	// missing and the write is flushed before Send returns. Safe for
	// concurrent use.
	Send(ctx context.Context, data []byte) error

	// Close terminates the worker and releases resources. Safe to call
	// multiple times.
	Close() error
}
