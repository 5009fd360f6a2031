// Package openmeteo is a thin client for the free Open-Meteo weather and
// geocoding APIs, plus the text renderers that turn its responses into
// the line-oriented payloads the bundled worker emits.
//
// The API needs no key. Numeric readings are kept as value-plus-unit
// strings ("31.4°C") exactly as the API reports them, so rendered text
// never re-rounds a measurement.
package openmeteo
