package rpc

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/skybridge-dev/weathermcp-go/internal/config"
	"github.com/skybridge-dev/weathermcp-go/internal/errors"
	"github.com/skybridge-dev/weathermcp-go/internal/wire"
)

// Conn correlates JSON-RPC requests with their responses over a transport.
//
// It owns the next-id counter and the pending-call table. Ids start at 1,
// increase strictly, and are never reused within the lifetime of one
// worker process instance. The read loop is the sole consumer of the
// incoming stream; each decoded response resolves exactly the pending call
// whose id it carries. Responses with an unknown id are logged as protocol
// anomalies and dropped.
type Conn struct {
	log       *slog.Logger
	transport config.Transport
	timeout   time.Duration

	// pendingMu guards both the id counter and the table so id
	// allocation and registration are one atomic step. No two
	// concurrent calls can share an id and no response can resolve the
	// wrong call.
	pendingMu sync.Mutex
	nextID    int64
	pending   map[int64]chan *wire.Response

	// Fatal error handling: first error wins, broadcast via done.
	errMu    sync.RWMutex
	fatalErr error

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewConn creates a connection over the given transport.
//
// The timeout bounds each Call; zero means config.DefaultRequestTimeout.
func NewConn(log *slog.Logger, transport config.Transport, timeout time.Duration) *Conn {
	if timeout <= 0 {
		timeout = config.DefaultRequestTimeout
	}

	return &Conn{
		log:       log.With("component", "rpc"),
		transport: transport,
		timeout:   timeout,
		pending:   make(map[int64]chan *wire.Response, 8),
		done:      make(chan struct{}),
	}
}

// Start begins the read loop. Must be called once, after the transport is
// started and before any Call.
func (c *Conn) Start(ctx context.Context) {
	lines, errs := c.transport.ReadLines(ctx)

	c.wg.Add(1)

	go c.readLoop(ctx, lines, errs)

	c.log.Debug("Connection read loop started")
}

// Close stops the connection and fails every outstanding call with
// ErrTransportClosed. Safe to call multiple times.
func (c *Conn) Close() error {
	c.closeDone()

	err := c.transport.Close()

	c.failAllPending()
	c.wg.Wait()

	c.log.Debug("Connection closed")

	return err
}

// Done returns a channel closed when the connection stops.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// FatalError returns the transport error that stopped the connection, if
// any.
func (c *Conn) FatalError() error {
	c.errMu.RLock()
	defer c.errMu.RUnlock()

	return c.fatalErr
}

// Call sends a request and suspends until the matching response arrives,
// the connection closes, the per-call timeout fires, or ctx is cancelled.
//
// A response carrying an error object fails the call with RemoteError.
// The read loop keeps draining unrelated traffic while callers wait, so
// any number of calls may be outstanding concurrently.
func (c *Conn) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	id, ch := c.register()

	c.log.Debug("Sending request", "id", id, "method", method)

	data, err := wire.EncodeRequest(wire.NewRequest(id, method, params))
	if err != nil {
		c.unregister(id)

		return nil, err
	}

	if err := c.transport.Send(ctx, data); err != nil {
		c.unregister(id)

		return nil, fmt.Errorf("send request: %w", err)
	}

	select {
	case resp, ok := <-ch:
		if !ok {
			// Channel closed by failAllPending.
			return nil, c.closedError()
		}

		if resp.Error != nil {
			c.log.Debug("Request failed remotely", "id", id, "code", resp.Error.Code)

			return nil, &errors.RemoteError{Code: resp.Error.Code, Message: resp.Error.Message}
		}

		c.log.Debug("Request resolved", "id", id)

		return resp.Result, nil

	case <-c.done:
		c.unregister(id)

		return nil, c.closedError()

	case <-time.After(c.timeout):
		c.unregister(id)

		c.log.Warn("Request timed out", "id", id, "method", method, "timeout", c.timeout)

		return nil, fmt.Errorf("%w after %s", errors.ErrRequestTimeout, c.timeout)

	case <-ctx.Done():
		c.unregister(id)

		return nil, ctx.Err()
	}
}

// Notify sends a notification. No pending call is registered and no reply
// is awaited.
func (c *Conn) Notify(ctx context.Context, method string, params any) error {
	c.log.Debug("Sending notification", "method", method)

	data, err := wire.EncodeNotification(wire.NewNotification(method, params))
	if err != nil {
		return err
	}

	if err := c.transport.Send(ctx, data); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	return nil
}

// register allocates the next id and its response channel atomically.
func (c *Conn) register() (int64, chan *wire.Response) {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()

	c.nextID++
	id := c.nextID

	ch := make(chan *wire.Response, 1)
	c.pending[id] = ch

	return id, ch
}

// unregister removes a pending call that is exiting without a response.
func (c *Conn) unregister(id int64) {
	c.pendingMu.Lock()
	delete(c.pending, id)
	c.pendingMu.Unlock()
}

func (c *Conn) readLoop(ctx context.Context, lines <-chan []byte, errs <-chan error) {
	defer c.wg.Done()
	defer c.closeDone()
	defer c.failAllPending()
	defer c.log.Debug("Read loop stopped")

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				c.log.Debug("Line channel closed")

				// Prefer the exit diagnosis when one is queued.
				select {
				case err := <-errs:
					if err != nil {
						c.setFatalError(err)

						return
					}
				default:
				}

				c.setFatalError(errors.ErrTransportClosed)

				return
			}

			c.handleLine(line)

		case err, ok := <-errs:
			if !ok {
				errs = nil

				continue
			}

			if err != nil {
				c.log.Debug("Transport error", "error", err)
				c.setFatalError(err)

				return
			}

		case <-c.done:
			return

		case <-ctx.Done():
			c.setFatalError(ctx.Err())

			return
		}
	}
}

// handleLine decodes one framed message and resolves its pending call.
func (c *Conn) handleLine(line []byte) {
	resp, err := wire.DecodeResponse(line)
	if err != nil {
		// Undecodable traffic is a protocol anomaly, never fatal: it
		// cannot be paired to a call, so no call fails because of it.
		c.log.Warn("Dropping undecodable message", "error", err)

		return
	}

	// Claim the pending call under the lock, resolve outside it.
	c.pendingMu.Lock()

	ch, exists := c.pending[resp.ID]
	if exists {
		delete(c.pending, resp.ID)
	}

	c.pendingMu.Unlock()

	if !exists {
		c.log.Warn("Response with no pending call", "id", resp.ID)

		return
	}

	// Buffered channel; the send cannot block even if the caller
	// already gave up.
	ch <- resp
}

// failAllPending closes every outstanding response channel, waking each
// suspended Call with ErrTransportClosed.
func (c *Conn) failAllPending() {
	c.pendingMu.Lock()
	defer c.pendingMu.Unlock()

	for id, ch := range c.pending {
		close(ch)
		delete(c.pending, id)
	}
}

func (c *Conn) setFatalError(err error) {
	c.errMu.Lock()

	if c.fatalErr == nil {
		c.fatalErr = err
	}

	c.errMu.Unlock()

	c.closeDone()
}

// closedError prefers the underlying transport failure over the generic
// sentinel but always matches errors.Is(err, ErrTransportClosed).
func (c *Conn) closedError() error {
	if err := c.FatalError(); err != nil && !stderrors.Is(err, errors.ErrTransportClosed) {
		return fmt.Errorf("%w: %w", errors.ErrTransportClosed, err)
	}

	return errors.ErrTransportClosed
}

func (c *Conn) closeDone() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}
