package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexNotFound signals a missing index.
	ErrIndexNotFound = errors.New("index not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrInvalidRequest signals a malformed or out-of-bounds request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnsupportedContentType signals a content type with no codec.
	ErrUnsupportedContentType = errors.New("unsupported content type")

	// ErrSourceDisabled signals that field filtering was requested for a
	// document whose raw source is not stored.
	ErrSourceDisabled = errors.New("source disabled")
	// ErrMalformedNestedPath signals that a nested identity does not match
	// the shape of the decoded document.
	ErrMalformedNestedPath = errors.New("malformed nested path")
	// ErrEncoding signals a failure while serializing a projected source.
	ErrEncoding = errors.New("error filtering source")
)

// EncodingError wraps a serialization failure with the target content type.
type EncodingError struct {
	ContentType string
	Err         error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s: encode %s: %v", ErrEncoding.Error(), e.ContentType, e.Err)
}

// Unwrap exposes both the ErrEncoding sentinel and the underlying cause.
func (e *EncodingError) Unwrap() []error { return []error{ErrEncoding, e.Err} }

// NewEncodingError creates an encoding error for the given content type.
func NewEncodingError(contentType string, err error) error {
	return &EncodingError{ContentType: contentType, Err: err}
}
