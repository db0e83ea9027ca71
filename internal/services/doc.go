// Package services sits between the HTTP and CLI presenters and the
// box-office pipeline.
//
// AnalysisService checks uploads (file type by extension, size limit, empty
// body) before handing them to the pipeline, and exposes the remote source.
// HealthService backs the health, readiness, liveness and version endpoints.
//
// Services receive their *slog.Logger through the constructor and return
// *errors.AppError values that the HTTP layer maps to problem documents.
package services
