package http

import (
	"context"
	"io"

	"movieweek/pkg/contracts/domain"
)

// AnalysisServiceInterface defines the analysis operations the handler needs
type AnalysisServiceInterface interface {
	AnalyzeUpload(ctx context.Context, filename string, body io.Reader) (*domain.Analysis, error)
	AnalyzeRemote(ctx context.Context) (*domain.Analysis, error)
	MaxUploadBytes() int64
}
