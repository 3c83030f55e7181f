package storage

import "errors"

var (
	// ErrInvalidCategory is returned when an operation references a category
	// outside the configured set. It is detected before any filesystem access.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrUnsupportedType is returned by the upload gate for media types outside
	// the allow-list, before any bytes are persisted.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrFileTooLarge is returned by the upload gate when the declared size
	// exceeds the configured ceiling.
	ErrFileTooLarge = errors.New("file too large")

	// ErrNotFound is returned when the primary file for a delete or download
	// does not exist.
	ErrNotFound = errors.New("file not found")
)
