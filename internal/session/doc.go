// Package session implements the MCP handshake and the typed tool-call
// surface on top of the correlation layer.
package session
