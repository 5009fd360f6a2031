// Package weathertext decodes the worker's free-text weather payloads
// into structured records.
//
// The upstream text format is human-readable and unversioned, so all
// decoders are pure, deterministic, and total: arbitrary input never
// produces an error, only fallback field values. Snapshot fields that the
// text does not carry are set to the explicit Unavailable marker; forecast
// entry fields are optional upstream and stay empty when absent, which is
// a different statement than Unavailable.
package weathertext
