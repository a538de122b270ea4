package internalerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// FetchError reports a network or HTTP failure while retrieving a document.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError reports a body that could not be decoded as a PDF.
type ExtractionError struct {
	URL string
	Err error
}

func (e *ExtractionError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("extract: %v", e.Err)
	}
	return fmt.Sprintf("extract %s: %v", e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// InsufficientDataError is returned when a scoring step receives no text to work on.
type InsufficientDataError struct {
	Op string
}

func (e *InsufficientDataError) Error() string {
	return e.Op + ": insufficient data"
}

// StorageError wraps a persistence failure for a single document.
type StorageError struct {
	Op  string
	URL string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsInsufficientData reports whether err carries an InsufficientDataError.
func IsInsufficientData(err error) bool {
	var ide *InsufficientDataError
	return errors.As(err, &ide)
}
