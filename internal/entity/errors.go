package entity

import "errors"

// Domain errors
var (
	// Document errors
	ErrDocumentNotFound   = errors.New("document not found")
	ErrContentUnavailable = errors.New("document content unavailable")

	// File errors
	ErrInvalidFile      = errors.New("invalid file")
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidExtension = errors.New("invalid file extension")

	// Collaborator errors
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")

	// Chunking errors
	ErrInvalidChunkConfig = errors.New("invalid chunk configuration")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")

	// Export errors
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
