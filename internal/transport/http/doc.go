// Package http implements the HTTP handlers for the movieweek API.
//
// Handlers stay thin: they parse the request, call a service and render the
// result with go-chi/render. Failures are passed to errors.ErrorHandler, which
// writes RFC 7807 problem documents.
//
// Routes:
//
//	POST /api/analysis          multipart upload, field "file" (.csv or .xlsx)
//	GET  /api/analysis/remote   analyse the configured remote export
//	GET  /api/health            overall status
//	GET  /api/health/ready      readiness, 503 when not ready
//	GET  /api/health/live       liveness with runtime details
//	GET  /api/version           build information
//
// Analysis endpoints answer {"status":"success","data":{...}} by default and
// CSV with ?format=csv (?section=weekday|category).
package http
