package errors

import (
	"errors"
	"fmt"
)

// BridgeError is the base interface for all errors produced by the bridge.
type BridgeError interface {
	error
	IsBridgeError() bool
}

// Compile-time verification that all error types implement BridgeError.
var (
	_ BridgeError = (*WorkerNotFoundError)(nil)
	_ BridgeError = (*SpawnError)(nil)
	_ BridgeError = (*HandshakeError)(nil)
	_ BridgeError = (*RemoteError)(nil)
	_ BridgeError = (*DecodeError)(nil)
	_ BridgeError = (*MalformedResultError)(nil)
	_ BridgeError = (*ProcessExitError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrNotConnected indicates the session is not in the Ready state.
	ErrNotConnected = errors.New("session not connected")

	// ErrAlreadyStarted indicates Start was called on a running transport.
	ErrAlreadyStarted = errors.New("transport already started")

	// ErrTransportClosed indicates the worker exited or was stopped while
	// a call was outstanding. Every pending call fails with this error.
	ErrTransportClosed = errors.New("transport closed")

	// ErrRequestTimeout indicates a request timed out awaiting its response.
	ErrRequestTimeout = errors.New("request timeout")

	// ErrSessionClosed indicates the session has been closed and cannot be
	// reused. Create a new session instead.
	ErrSessionClosed = errors.New("session closed")

	// ErrStdinClosed indicates the worker's stdin was closed, usually due
	// to context cancellation during a blocked write.
	ErrStdinClosed = errors.New("worker stdin closed")
)

// WorkerNotFoundError indicates the worker executable could not be located.
type WorkerNotFoundError struct {
	Path string
	Err  error
}

func (e *WorkerNotFoundError) Error() string {
	return fmt.Sprintf("worker executable not found: %s", e.Path)
}

func (e *WorkerNotFoundError) Unwrap() error {
	return e.Err
}

// IsBridgeError implements BridgeError.
func (e *WorkerNotFoundError) IsBridgeError() bool { return true }

// SpawnError indicates the worker process could not be started.
type SpawnError struct {
	Err error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn worker: %v", e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// IsBridgeError implements BridgeError.
func (e *SpawnError) IsBridgeError() bool { return true }

// HandshakeError indicates the initialize exchange failed. Session startup
// stops when this is returned; the transport has already been torn down.
type HandshakeError struct {
	Err error
}

func (e *HandshakeError) Error() string {
	return fmt.Sprintf("handshake failed: %v", e.Err)
}

func (e *HandshakeError) Unwrap() error {
	return e.Err
}

// IsBridgeError implements BridgeError.
func (e *HandshakeError) IsBridgeError() bool { return true }

// RemoteError carries a JSON-RPC error object reported by the worker.
// It is scoped to a single call; the session remains usable.
type RemoteError struct {
	Code    int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("worker error %d: %s", e.Code, e.Message)
}

// IsBridgeError implements BridgeError.
func (e *RemoteError) IsBridgeError() bool { return true }

// DecodeError indicates a line from the worker was not a well-formed
// response envelope. The raw bytes are preserved for diagnostics.
type DecodeError struct {
	RawData string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode message from worker: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsBridgeError implements BridgeError.
func (e *DecodeError) IsBridgeError() bool { return true }

// MalformedResultError indicates a tool call result did not match the
// expected content-block shape. It fails the single call, not the session.
type MalformedResultError struct {
	Reason string
	Data   map[string]any
}

func (e *MalformedResultError) Error() string {
	return fmt.Sprintf("malformed tool result: %s", e.Reason)
}

// IsBridgeError implements BridgeError.
func (e *MalformedResultError) IsBridgeError() bool { return true }

// ProcessExitError indicates the worker process exited unexpectedly.
type ProcessExitError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("worker process failed (exit %d): %v", e.ExitCode, e.Err)
	}

	return fmt.Sprintf("worker process failed (exit %d): %s", e.ExitCode, e.Stderr)
}

func (e *ProcessExitError) Unwrap() error {
	return e.Err
}

// IsBridgeError implements BridgeError.
func (e *ProcessExitError) IsBridgeError() bool { return true }
