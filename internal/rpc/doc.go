// Package rpc implements id-based request/response correlation over the
// worker transport.
//
// One Conn owns one worker process instance: it allocates strictly
// increasing request ids, tracks outstanding calls in a pending table, and
// runs the single read loop that drains the incoming stream for the life
// of the process. Callers suspend on per-call channels, so responses may
// arrive in any order without blocking one another.
package rpc
