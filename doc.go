// Package weathermcp provides a Go client for weather MCP workers.
//
// The client spawns a worker process, speaks newline-delimited JSON-RPC
// 2.0 over its stdin/stdout, performs the MCP initialize handshake, and
// exposes the worker's weather tools as typed calls. The worker's
// free-text payloads are decoded into structured records by the
// weathertext package.
//
// # Basic Usage
//
//	ctx := context.Background()
//
//	client := weathermcp.New(
//	    weathermcp.WithWorkerCommand("weather-worker"),
//	    weathermcp.WithLogger(slog.Default()),
//	)
//	if err := client.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	snap, err := client.CurrentWeather(ctx, "Bangkok, Thailand")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(snap.Temperature)
//
// # Error Handling
//
// Typed errors distinguish the failure scenarios:
//
//	if err := client.Start(ctx); err != nil {
//	    var notFound *weathermcp.WorkerNotFoundError
//	    if errors.As(err, &notFound) {
//	        log.Fatalf("worker not installed: %s", notFound.Path)
//	    }
//	    var handshake *weathermcp.HandshakeError
//	    if errors.As(err, &handshake) {
//	        log.Fatalf("worker is not a conforming MCP server: %v", handshake)
//	    }
//	    log.Fatal(err)
//	}
//
// A RemoteError fails one call and leaves the session usable; when the
// worker exits, every outstanding call fails with ErrTransportClosed.
//
// # The bundled worker
//
// cmd/weather-worker ships an Open-Meteo backed MCP worker exposing
// get_current_weather, get_weather_forecast and search_location; any
// stdio MCP server implementing the same tools works as a drop-in
// replacement.
package weathermcp
