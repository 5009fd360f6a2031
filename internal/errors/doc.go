// Package errors defines the bridge error taxonomy.
//
// All typed errors implement the BridgeError marker interface and support
// errors.Is/errors.As through Unwrap where they carry a cause.
package errors
