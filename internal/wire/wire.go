package wire

import (
	"encoding/json"
	"fmt"

	"github.com/skybridge-dev/weathermcp-go/internal/errors"
)

const (
	// Version is the JSON-RPC protocol version carried on every message.
	Version = "2.0"

	// ProtocolVersion is the MCP protocol revision sent during initialize.
	ProtocolVersion = "2024-11-05"
)

// Method names used by the bridge.
const (
	MethodInitialize               = "initialize"
	MethodToolsList                = "tools/list"
	MethodToolsCall                = "tools/call"
	MethodNotificationsInitialized = "notifications/initialized"
)

// Request is an outgoing JSON-RPC request. ID is a positive integer unique
// within the lifetime of one worker process instance.
type Request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// Notification is an outgoing JSON-RPC notification. It carries no id and
// no reply is expected.
type Notification struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// ResponseError is the error object of a failed response.
type ResponseError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Response is an incoming JSON-RPC response. Exactly one of Result and
// Error is set. Result is kept raw; the caller decides its shape per
// method.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ResponseError  `json:"error,omitempty"`
}

// NewRequest builds a request envelope for the given id, method and params.
func NewRequest(id int64, method string, params any) *Request {
	return &Request{JSONRPC: Version, ID: id, Method: method, Params: params}
}

// NewNotification builds a notification envelope.
func NewNotification(method string, params any) *Notification {
	return &Notification{JSONRPC: Version, Method: method, Params: params}
}

// EncodeRequest serializes a request to its wire form, without the
// trailing newline. Framing is the transport's job.
func EncodeRequest(req *Request) ([]byte, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	return data, nil
}

// EncodeNotification serializes a notification to its wire form.
func EncodeNotification(n *Notification) ([]byte, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("marshal notification: %w", err)
	}

	return data, nil
}

// DecodeResponse parses one framed line into a response envelope.
//
// A line that is not well-formed JSON, or that carries no id (the worker
// may emit log noise or server-initiated notifications), fails with a
// DecodeError preserving the raw bytes. Any valid JSON value is tolerated
// as result or error.data.
func DecodeResponse(line []byte) (*Response, error) {
	// Probe for the id first so non-response traffic is distinguishable
	// from corrupt data.
	var probe struct {
		ID *int64 `json:"id"`
	}

	if err := json.Unmarshal(line, &probe); err != nil {
		return nil, &errors.DecodeError{RawData: string(line), Err: err}
	}

	if probe.ID == nil {
		return nil, &errors.DecodeError{
			RawData: string(line),
			Err:     fmt.Errorf("message has no id"),
		}
	}

	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, &errors.DecodeError{RawData: string(line), Err: err}
	}

	return &resp, nil
}
