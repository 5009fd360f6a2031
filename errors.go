package weathermcp

import "github.com/skybridge-dev/weathermcp-go/internal/errors"

// Re-export error types from internal package

// WorkerNotFoundError indicates the worker executable was not found.
type WorkerNotFoundError = errors.WorkerNotFoundError

// SpawnError indicates the worker process could not be started.
type SpawnError = errors.SpawnError

// HandshakeError indicates the initialize exchange failed.
type HandshakeError = errors.HandshakeError

// RemoteError carries a JSON-RPC error object reported by the worker.
type RemoteError = errors.RemoteError

// DecodeError indicates a worker message was not a well-formed envelope.
type DecodeError = errors.DecodeError

// MalformedResultError indicates a tool result did not match the expected
// content-block shape.
type MalformedResultError = errors.MalformedResultError

// ProcessExitError indicates the worker process exited unexpectedly.
type ProcessExitError = errors.ProcessExitError

// BridgeError is the base interface for all errors produced by the bridge.
type BridgeError = errors.BridgeError

// Re-export sentinel errors from internal package.
var (
	// ErrNotConnected indicates the session is not ready for calls.
	ErrNotConnected = errors.ErrNotConnected

	// ErrAlreadyStarted indicates Start was called on a running client.
	ErrAlreadyStarted = errors.ErrAlreadyStarted

	// ErrTransportClosed indicates the worker exited or was stopped
	// while a call was outstanding.
	ErrTransportClosed = errors.ErrTransportClosed

	// ErrRequestTimeout indicates a request timed out.
	ErrRequestTimeout = errors.ErrRequestTimeout

	// ErrSessionClosed indicates the client was closed; clients are
	// single-use.
	ErrSessionClosed = errors.ErrSessionClosed
)
