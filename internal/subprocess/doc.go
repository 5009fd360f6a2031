// Package subprocess manages the worker process lifecycle and the
// newline-delimited framing over its stdin/stdout pipes.
package subprocess
