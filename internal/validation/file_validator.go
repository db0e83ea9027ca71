package validation

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"movieweek/internal/dataprocessing"
)

// Validation errors
var (
	ErrNotAFile        = errors.New("path is not a regular file")
	ErrTemporaryFile   = errors.New("temporary office lock file")
	ErrContentMismatch = errors.New("file content does not match its extension")
)

// zipMagic opens every .xlsx workbook.
var zipMagic = []byte("PK\x03\x04")

// sniffLen is how much of a delimited export is checked for binary content.
const sniffLen = 4096

// FileValidator checks box-office export files before they reach the pipeline
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger.With(slog.String("component", "file_validator")),
	}
}

// ValidateFile checks that path exists, is a regular file and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist: %w", path, err)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s: %w", path, ErrNotAFile)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return ValidateName(path)
}

// ValidateName rejects Excel lock files such as "~$daily.xlsx"
func ValidateName(name string) error {
	if strings.HasPrefix(filepath.Base(name), "~$") {
		return fmt.Errorf("%s: %w", name, ErrTemporaryFile)
	}
	return nil
}

// ValidateContent checks that data looks like format: workbooks must be zip
// archives and delimited exports must be text.
func (v *FileValidator) ValidateContent(name string, format dataprocessing.Format, data []byte) error {
	var ok bool
	switch format {
	case dataprocessing.FormatXLSX:
		ok = bytes.HasPrefix(data, zipMagic)
	case dataprocessing.FormatCSV:
		head := data
		if len(head) > sniffLen {
			head = head[:sniffLen]
		}
		ok = !bytes.HasPrefix(data, zipMagic) && bytes.IndexByte(head, 0) < 0
	default:
		return fmt.Errorf("%w: %q", dataprocessing.ErrUnsupportedFormat, format)
	}

	if !ok {
		v.logger.Warn("File content does not match extension",
			slog.String("file", name),
			slog.String("format", string(format)))
		return fmt.Errorf("%s is not a valid %s file: %w", name, format, ErrContentMismatch)
	}
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
