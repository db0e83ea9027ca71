package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"movieweek/internal/dataprocessing"
	apperrors "movieweek/internal/errors"
	"movieweek/internal/validation"
	"movieweek/pkg/contracts/domain"
)

// Analyzer runs the box-office pipeline. *dataprocessing.Pipeline satisfies it.
type Analyzer interface {
	Run(ctx context.Context, src dataprocessing.Source) (*domain.Analysis, error)
	RunRemote(ctx context.Context) (*domain.Analysis, error)
	RemoteURL() string
}

// AnalysisService validates incoming sources and hands them to the pipeline
type AnalysisService struct {
	analyzer       Analyzer
	validator      *validation.FileValidator
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(analyzer Analyzer, maxUploadBytes int64, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		analyzer:       analyzer,
		validator:      validation.NewFileValidator(logger),
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("service", "analysis")),
	}
}

// AnalyzeUpload reads an uploaded export and analyses it. The file type is
// taken from the name; bodies over the upload limit are rejected.
func (s *AnalysisService) AnalyzeUpload(ctx context.Context, filename string, body io.Reader) (*domain.Analysis, error) {
	if strings.TrimSpace(filename) == "" || body == nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeValidation, "a file is required", ErrMissingFile)
	}

	if err := validation.ValidateName(filename); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeValidation, "temporary files cannot be analysed", err)
	}

	format, err := dataprocessing.FormatFromFilename(filename)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeValidation,
			"only .csv and .xlsx files are supported",
			fmt.Errorf("%w: %w", ErrInvalidFileType, err)).
			WithContext("filename", filename)
	}

	data, err := s.readLimited(body)
	if err != nil {
		return nil, err
	}
	if err := s.validator.ValidateContent(filename, format, data); err != nil {
		return nil, contentError(err)
	}

	s.logger.InfoContext(ctx, "Analyzing uploaded file",
		slog.String("filename", filename),
		slog.String("format", string(format)),
		slog.Int("bytes", len(data)))

	return s.analyzer.Run(ctx, dataprocessing.Source{
		Name:   filename,
		Format: format,
		Origin: dataprocessing.OriginUpload,
		Data:   data,
	})
}

// AnalyzeFile analyses a local export
func (s *AnalysisService) AnalyzeFile(ctx context.Context, path string) (*domain.Analysis, error) {
	if err := s.validator.ValidateFile(path); err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeValidation, "could not open input file", err).
			WithContext("path", path)
	}

	src, err := dataprocessing.SourceFromFile(path)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeValidation, "could not open input file", err).
			WithContext("path", path)
	}
	if s.maxUploadBytes > 0 && int64(len(src.Data)) > s.maxUploadBytes {
		return nil, apperrors.NewTooLargeError(
			fmt.Sprintf("file is larger than %d bytes", s.maxUploadBytes), ErrFileTooLarge)
	}
	if err := s.validator.ValidateContent(path, src.Format, src.Data); err != nil {
		return nil, contentError(err)
	}
	return s.analyzer.Run(ctx, src)
}

// AnalyzeRemote analyses the configured remote export
func (s *AnalysisService) AnalyzeRemote(ctx context.Context) (*domain.Analysis, error) {
	s.logger.InfoContext(ctx, "Analyzing remote source", slog.String("url", s.analyzer.RemoteURL()))
	return s.analyzer.RunRemote(ctx)
}

// MaxUploadBytes returns the upload size limit
func (s *AnalysisService) MaxUploadBytes() int64 {
	return s.maxUploadBytes
}

func (s *AnalysisService) readLimited(body io.Reader) ([]byte, error) {
	reader := body
	if s.maxUploadBytes > 0 {
		reader = io.LimitReader(body, s.maxUploadBytes+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, apperrors.NewLoadError("could not read uploaded file", err)
	}
	if s.maxUploadBytes > 0 && int64(len(data)) > s.maxUploadBytes {
		return nil, apperrors.NewTooLargeError(
			fmt.Sprintf("file is larger than %d bytes", s.maxUploadBytes), ErrFileTooLarge)
	}
	if len(data) == 0 {
		return nil, apperrors.NewAppError(apperrors.ErrTypeValidation, "uploaded file is empty", ErrEmptyFile)
	}
	return data, nil
}

// contentError reports a file whose bytes do not match its extension as a
// load failure, like any other unreadable export.
func contentError(err error) error {
	return apperrors.NewLoadError("file content does not match its extension",
		fmt.Errorf("%w: %w", dataprocessing.ErrLoadFailed, err))
}
