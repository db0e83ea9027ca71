// Package app assembles the movieweek HTTP service.
//
// NewApplication initializes OpenTelemetry, builds the box-office pipeline
// and its services, and mounts the handlers on a chi router behind the
// request ID, tracing, logging, recovery, CORS, rate limit and timeout
// middleware. Run serves until SIGINT or SIGTERM and then shuts down
// gracefully within Server.ShutdownTimeout.
package app
