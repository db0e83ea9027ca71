package services

import "errors"

// Analysis service errors
var (
	// Upload errors
	ErrMissingFile     = errors.New("no file was uploaded")
	ErrEmptyFile       = errors.New("uploaded file is empty")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file exceeds upload limit")
)
