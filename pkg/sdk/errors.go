package hitsource

import "github.com/kailas-cloud/hitsource/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrIndexNotFound          = domain.ErrIndexNotFound
	ErrAlreadyExists          = domain.ErrAlreadyExists
	ErrDocumentNotFound       = domain.ErrDocumentNotFound
	ErrInvalidRequest         = domain.ErrInvalidRequest
	ErrUnsupportedContentType = domain.ErrUnsupportedContentType
	ErrSourceDisabled         = domain.ErrSourceDisabled
	ErrMalformedNestedPath    = domain.ErrMalformedNestedPath
	ErrEncoding               = domain.ErrEncoding
)
