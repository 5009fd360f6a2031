package subprocess

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/skybridge-dev/weathermcp-go/internal/config"
	"github.com/skybridge-dev/weathermcp-go/internal/errors"
)

const (
	// maxScanTokenSize is the maximum buffer size for reading worker
	// output lines.
	maxScanTokenSize = 1024 * 1024 // 1MB

	// maxStderrBufferSize caps the stderr buffer kept for error
	// reporting. The callback still receives every line; only the
	// buffer stops growing.
	maxStderrBufferSize = 1 * 1024 * 1024 // 1MB

	// exitGracePeriod is how long Close waits for the worker to exit on
	// stdin EOF before killing it.
	exitGracePeriod = 3 * time.Second
)

// Worker implements config.Transport by spawning the worker process and
// framing newline-delimited messages over its stdin/stdout pipes.
type Worker struct {
	log            *slog.Logger
	command        string
	args           []string
	env            []string
	cwd            string
	stderrCallback func(string)

	mu          sync.Mutex // protects lifecycle flags and pipe handles
	writeMu     sync.Mutex // serializes stdin writes
	cmd         *exec.Cmd
	stdin       io.WriteCloser
	stdout      io.ReadCloser
	stderr      io.ReadCloser
	started     bool
	reading     bool
	closing     bool
	stdinClosed bool

	// waitDone is closed by the read goroutine after cmd.Wait returns.
	waitDone chan struct{}

	// shutdown is closed by Close so a line the consumer will never
	// drain cannot strand the read goroutine mid-send.
	shutdown chan struct{}
}

// Compile-time verification that Worker implements the Transport interface.
var _ config.Transport = (*Worker)(nil)

// NewWorker creates a worker transport for the given command.
//
// The process is not spawned until Start. The logger receives debug, info,
// warn, and error messages during transport operations.
func NewWorker(log *slog.Logger, options *config.Options) *Worker {
	return &Worker{
		log:            log.With("component", "worker_transport"),
		command:        options.WorkerCommand,
		args:           options.WorkerArgs,
		env:            options.Env,
		cwd:            options.Cwd,
		stderrCallback: options.Stderr,
		waitDone:       make(chan struct{}),
		shutdown:       make(chan struct{}),
	}
}

// Start spawns the worker process with stdin/stdout/stderr pipes attached.
//
// Returns WorkerNotFoundError if the executable cannot be located,
// SpawnError if the process fails to launch, and ErrAlreadyStarted if the
// worker is already running.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return errors.ErrAlreadyStarted
	}

	path, err := exec.LookPath(w.command)
	if err != nil {
		w.log.Error("Worker executable not found", "command", w.command, "error", err)

		return &errors.WorkerNotFoundError{Path: w.command, Err: err}
	}

	w.log.Info("Starting worker process", "path", path, "args", w.args)

	//nolint:gosec // G204: spawning a caller-configured worker is the point
	cmd := exec.CommandContext(ctx, path, w.args...)
	cmd.Dir = w.cwd

	if len(w.env) > 0 {
		cmd.Env = append(os.Environ(), w.env...)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return &errors.SpawnError{Err: fmt.Errorf("stdin pipe: %w", err)}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &errors.SpawnError{Err: fmt.Errorf("stdout pipe: %w", err)}
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return &errors.SpawnError{Err: fmt.Errorf("stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		w.log.Error("Failed to start worker process", "error", err)

		return &errors.SpawnError{Err: fmt.Errorf("start process: %w", err)}
	}

	w.cmd = cmd
	w.stdin = stdin
	w.stdout = stdout
	w.stderr = stderr
	w.started = true

	w.log.Info("Worker process started", "pid", cmd.Process.Pid)

	return nil
}

// ReadLines reads framed messages from the worker's stdout.
//
// One goroutine owns the stream for the life of the process: it buffers
// partial chunks until a newline and emits each complete line (newline
// stripped) on the returned channel. A companion goroutine drains stderr
// into a capped buffer for error reporting and feeds the stderr callback.
//
// When stdout ends the process is reaped; an unexpected exit surfaces as a
// ProcessExitError on the error channel. Both channels close when the
// goroutine stops. Close abandons any line the consumer no longer drains.
func (w *Worker) ReadLines(ctx context.Context) (<-chan []byte, <-chan error) {
	lines := make(chan []byte)
	// Room for a scanner error plus the exit status.
	errs := make(chan error, 2)

	w.mu.Lock()
	w.reading = true
	w.mu.Unlock()

	var (
		stderrMu     sync.Mutex
		stderrBuffer strings.Builder
	)

	// Reader pair: stdout framing plus stderr capture. The group relies
	// on process termination to close the pipes and unblock Scan.
	var eg errgroup.Group

	eg.Go(func() error {
		scanner := bufio.NewScanner(w.stderr)
		for scanner.Scan() {
			line := scanner.Text()

			stderrMu.Lock()

			if stderrBuffer.Len() < maxStderrBufferSize {
				if stderrBuffer.Len() > 0 {
					stderrBuffer.WriteString("\n")
				}

				stderrBuffer.WriteString(line)
			}

			stderrMu.Unlock()

			if w.stderrCallback != nil {
				w.stderrCallback(line)
			}
		}

		if err := scanner.Err(); err != nil {
			w.log.Debug("Stderr scanner error", "error", err)
		}

		return nil
	})

	go func() {
		defer close(lines)
		defer close(errs)
		defer w.log.Debug("ReadLines goroutine stopped")

		scanner := bufio.NewScanner(w.stdout)
		buf := make([]byte, maxScanTokenSize)
		scanner.Buffer(buf, maxScanTokenSize)

		for scanner.Scan() {
			// Scanner reuses its buffer; hand out a copy.
			line := make([]byte, len(scanner.Bytes()))
			copy(line, scanner.Bytes())

			select {
			case lines <- line:
			case <-ctx.Done():
				w.log.Debug("Context cancelled during line send", "error", ctx.Err())

				errs <- ctx.Err()

				w.reap()

				return
			case <-w.shutdown:
				w.log.Debug("Shutdown during line send, dropping line")

				w.reap()

				return
			}
		}

		if err := scanner.Err(); err != nil {
			w.log.Error("Scanner error while reading worker output", "error", err)

			errs <- fmt.Errorf("scanner error: %w", err)
		}

		// Stderr must be fully drained before Wait.
		_ = eg.Wait()

		err := w.reap()
		if err == nil {
			w.log.Info("Worker process exited cleanly")

			return
		}

		w.mu.Lock()
		isClosing := w.closing
		w.mu.Unlock()

		if isClosing {
			w.log.Debug("Worker terminated during shutdown")

			return
		}

		exitCode := 0
		if exitErr, ok := asExitError(err); ok {
			exitCode = exitErr.ExitCode()
		}

		stderrMu.Lock()
		stderrOutput := stderrBuffer.String()
		stderrMu.Unlock()

		w.log.Error("Worker process exited with error", "exit_code", exitCode, "stderr", stderrOutput)

		errs <- &errors.ProcessExitError{
			ExitCode: exitCode,
			Stderr:   stderrOutput,
			Err:      err,
		}
	}()

	return lines, errs
}

// Send writes one framed message to the worker's stdin.
//
// A trailing newline is appended if missing. The pipe is unbuffered, so
// the write syscall is the flush; when Send returns the worker can read
// the full message. Safe for concurrent use; respects context
// cancellation even during a blocked write by closing stdin.
func (w *Worker) Send(ctx context.Context, data []byte) error {
	// Snapshot state under mu, then release it: a write blocked on a
	// full pipe must never hold up Close.
	w.mu.Lock()
	stdin := w.stdin
	started := w.started
	stdinClosed := w.stdinClosed
	w.mu.Unlock()

	if stdin == nil || !started {
		return errors.ErrTransportClosed
	}

	if stdinClosed {
		return errors.ErrStdinClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	// Explicit copy so appending does not mutate the caller's backing
	// array when the slice has spare capacity.
	if len(data) == 0 || data[len(data)-1] != '\n' {
		framed := make([]byte, len(data)+1)
		copy(framed, data)
		framed[len(data)] = '\n'
		data = framed
	}

	w.log.Debug("Sending message to worker", "data_len", len(data))

	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	done := make(chan error, 1)

	go func() {
		_, err := stdin.Write(data)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("write to stdin: %w", err)
		}

		return nil

	case <-ctx.Done():
		w.log.Debug("Context cancelled during write, closing stdin")

		w.closeStdin()

		select {
		case <-done:
		case <-time.After(time.Second):
			w.log.Warn("Write goroutine did not exit after stdin close")
		}

		return ctx.Err()
	}
}

// closeStdin closes stdin exactly once, unblocking any in-flight write.
func (w *Worker) closeStdin() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stdin != nil && !w.stdinClosed {
		_ = w.stdin.Close()
		w.stdinClosed = true
	}
}

// Close terminates the worker process.
//
// Stdin is closed first so a well-behaved worker exits on EOF; after a
// grace period the process is killed. Safe to call multiple times.
func (w *Worker) Close() error {
	w.mu.Lock()

	if !w.started || w.closing {
		w.mu.Unlock()

		return nil
	}

	w.closing = true
	close(w.shutdown)

	if w.stdin != nil && !w.stdinClosed {
		_ = w.stdin.Close()
		w.stdinClosed = true
	}

	cmd := w.cmd
	reading := w.reading
	w.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}

	if !reading {
		// No read loop to reap the process; do it here.
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		close(w.waitDone)

		return nil
	}

	select {
	case <-w.waitDone:
		return nil
	case <-time.After(exitGracePeriod):
	}

	w.log.Debug("Worker did not exit on EOF, killing", "pid", cmd.Process.Pid)

	if err := cmd.Process.Kill(); err != nil && !stderrors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill worker (pid %d): %w", cmd.Process.Pid, err)
	}

	<-w.waitDone

	return nil
}

// reap waits for the process to exit, exactly once.
func (w *Worker) reap() error {
	w.log.Debug("Waiting for worker process to exit")

	err := w.cmd.Wait()
	close(w.waitDone)

	return err
}

// asExitError extracts an *exec.ExitError from err if present.
func asExitError(err error) (*exec.ExitError, bool) {
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr, true
	}

	return nil, false
}
