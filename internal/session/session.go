package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/skybridge-dev/weathermcp-go/internal/config"
	"github.com/skybridge-dev/weathermcp-go/internal/errors"
	"github.com/skybridge-dev/weathermcp-go/internal/rpc"
	"github.com/skybridge-dev/weathermcp-go/internal/wire"
)

// State is the session lifecycle state.
type State int

const (
	// Unstarted means Start has not been called.
	Unstarted State = iota
	// Handshaking means the initialize exchange is in progress.
	Handshaking
	// Ready means the handshake completed and tool calls are accepted.
	Ready
	// Closed means the session was shut down or the worker exited.
	// Sessions are single-use; a Closed session cannot be restarted.
	Closed
)

func (s State) String() string {
	switch s {
	case Unstarted:
		return "unstarted"
	case Handshaking:
		return "handshaking"
	case Ready:
		return "ready"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Tool describes one tool advertised by the worker.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"inputSchema,omitempty"`
}

// initializeParams is the params object of the initialize request.
type initializeParams struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ClientInfo      clientInfo     `json:"clientInfo"`
}

type clientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// contentBlock is one element of a tool result's content array.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Session performs the handshake and exposes the typed call surface over a
// connection.
type Session struct {
	log     *slog.Logger
	conn    *rpc.Conn
	options *config.Options

	mu    sync.Mutex
	state State
}

// New creates a session over the given connection. The transport behind
// the connection must already be started; Start drives the rest.
func New(log *slog.Logger, conn *rpc.Conn, options *config.Options) *Session {
	return &Session{
		log:     log.With("component", "session", "session_id", ulid.Make().String()),
		conn:    conn,
		options: options,
	}
}

// State reports the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Start performs the handshake: an initialize request followed by the
// initialized notification. On success the session transitions to Ready.
//
// Any failure tears the connection down, moves the session to Closed, and
// is reported as a HandshakeError. A failed startup is an expected,
// recoverable outcome for the embedding application; it is never a panic.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()

	if s.state != Unstarted {
		state := s.state
		s.mu.Unlock()

		if state == Closed {
			return errors.ErrSessionClosed
		}

		return fmt.Errorf("start in state %s", state)
	}

	s.state = Handshaking
	s.mu.Unlock()

	s.log.Debug("Starting handshake")

	name := s.options.ClientName
	if name == "" {
		name = "weathermcp"
	}

	version := s.options.ClientVersion
	if version == "" {
		version = "1.0.0"
	}

	params := initializeParams{
		ProtocolVersion: wire.ProtocolVersion,
		Capabilities:    map[string]any{"tools": map[string]any{}},
		ClientInfo:      clientInfo{Name: name, Version: version},
	}

	if _, err := s.conn.Call(ctx, wire.MethodInitialize, params); err != nil {
		s.teardown()

		return &errors.HandshakeError{Err: fmt.Errorf("initialize: %w", err)}
	}

	if err := s.conn.Notify(ctx, wire.MethodNotificationsInitialized, map[string]any{}); err != nil {
		s.teardown()

		return &errors.HandshakeError{Err: fmt.Errorf("initialized notification: %w", err)}
	}

	s.mu.Lock()
	s.state = Ready
	s.mu.Unlock()

	s.log.Info("Session ready")

	return nil
}

// Invoke calls the named tool and returns the text of the first content
// block in the result.
//
// The worker may return more than one block; per the upstream contract
// only the first is consumed and the rest are ignored. A non-conforming
// result fails the call with MalformedResultError; the session stays
// usable.
func (s *Session) Invoke(ctx context.Context, toolName string, arguments map[string]any) (string, error) {
	if state := s.State(); state != Ready {
		s.log.Debug("Invoke rejected", "state", state)

		return "", errors.ErrNotConnected
	}

	if arguments == nil {
		arguments = map[string]any{}
	}

	s.log.Debug("Invoking tool", "tool", toolName)

	result, err := s.conn.Call(ctx, wire.MethodToolsCall, map[string]any{
		"name":      toolName,
		"arguments": arguments,
	})
	if err != nil {
		return "", err
	}

	return firstTextBlock(result)
}

// ListTools asks the worker for its advertised tools.
func (s *Session) ListTools(ctx context.Context) ([]Tool, error) {
	if state := s.State(); state != Ready {
		return nil, errors.ErrNotConnected
	}

	result, err := s.conn.Call(ctx, wire.MethodToolsList, nil)
	if err != nil {
		return nil, err
	}

	var listed struct {
		Tools []Tool `json:"tools"`
	}

	if err := json.Unmarshal(result, &listed); err != nil {
		return nil, &errors.MalformedResultError{Reason: fmt.Sprintf("tools/list result: %v", err)}
	}

	return listed.Tools, nil
}

// Close tears down the connection and moves the session to Closed. Valid
// from any state and safe to call multiple times.
func (s *Session) Close() error {
	s.mu.Lock()

	if s.state == Closed {
		s.mu.Unlock()

		return nil
	}

	s.state = Closed
	s.mu.Unlock()

	s.log.Debug("Closing session")

	return s.conn.Close()
}

func (s *Session) teardown() {
	s.mu.Lock()
	s.state = Closed
	s.mu.Unlock()

	_ = s.conn.Close()
}

// firstTextBlock extracts content[0].text from a tools/call result.
func firstTextBlock(result json.RawMessage) (string, error) {
	var parsed struct {
		Content []contentBlock `json:"content"`
	}

	if err := json.Unmarshal(result, &parsed); err != nil {
		return "", &errors.MalformedResultError{Reason: fmt.Sprintf("tool result is not an object with content: %v", err)}
	}

	if len(parsed.Content) == 0 {
		return "", &errors.MalformedResultError{Reason: "tool result has no content blocks"}
	}

	first := parsed.Content[0]
	if first.Type != "text" {
		return "", &errors.MalformedResultError{Reason: fmt.Sprintf("first content block is %q, not text", first.Type)}
	}

	return first.Text, nil
}
