package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFileType    = errors.New("only PDF files are allowed")
	ErrMissingField       = errors.New("missing required field")
	ErrInvalidField       = errors.New("invalid field value")
	ErrExtractionFailed   = errors.New("PDF extraction failed")
	ErrMatchingFailed     = errors.New("batch matching failed")
	ErrNoValidItems       = errors.New("no valid items could be extracted from the PDF")
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	ErrNotFound         = errors.New("not found")
	ErrOrderNotFound    = fmt.Errorf("order %w", ErrNotFound)
	ErrLineItemNotFound = fmt.Errorf("line item %w", ErrNotFound)
	ErrFileNotFound     = fmt.Errorf("file %w", ErrNotFound)
)

// UpstreamError carries a non-success response from one of the collaborator APIs.
type UpstreamError struct {
	Service    string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%v: %s returned status %d: %s", e.Err, e.Service, e.StatusCode, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
