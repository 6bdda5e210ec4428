package chi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ErrorCode is the machine-readable error code of an ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest             ErrorCode = "bad_request"
	ErrorCodeValidationFailed       ErrorCode = "validation_failed"
	ErrorCodeUnauthorized           ErrorCode = "unauthorized"
	ErrorCodeIndexNotFound          ErrorCode = "index_not_found"
	ErrorCodeDocumentNotFound       ErrorCode = "document_not_found"
	ErrorCodeIndexAlreadyExists     ErrorCode = "index_already_exists"
	ErrorCodeSourceDisabled         ErrorCode = "source_disabled"
	ErrorCodeMalformedNestedPath    ErrorCode = "malformed_nested_path"
	ErrorCodeEncodingFailed         ErrorCode = "encoding_failed"
	ErrorCodeUnsupportedContentType ErrorCode = "unsupported_content_type"
	ErrorCodePayloadTooLarge        ErrorCode = "payload_too_large"
	ErrorCodeInternalError          ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// CreateIndexRequest is the body of PUT /indices/{index}.
type CreateIndexRequest struct {
	SourceEnabled *bool  `json:"source_enabled,omitempty"`
	ContentType   string `json:"content_type,omitempty"`
}

// IndexResponse describes an index.
type IndexResponse struct {
	Name          string `json:"name"`
	SourceEnabled bool   `json:"source_enabled"`
	ContentType   string `json:"content_type"`
	CreatedAt     int64  `json:"created_at"`
	Revision      int    `json:"revision"`
}

// IndexListResponse is the body of GET /indices.
type IndexListResponse struct {
	Items []IndexResponse `json:"items"`
}

// DocumentResponse acknowledges a document write or describes a stored document.
type DocumentResponse struct {
	Index        string `json:"_index"`
	ID           string `json:"_id"`
	Revision     int    `json:"_revision,omitempty"`
	Result       string `json:"result,omitempty"`
	SourceStored bool   `json:"source_stored"`
}

// NestedLevel is one level of a nested hit identity in a fetch request.
type NestedLevel struct {
	Field  string `json:"field"`
	Offset int    `json:"offset"`
}

// FetchHitRef references a hit to fetch.
type FetchHitRef struct {
	ID     string        `json:"id"`
	Score  float64       `json:"score"`
	Nested []NestedLevel `json:"nested,omitempty"`
}

// FetchRequest is the body of POST /indices/{index}/_fetch.
type FetchRequest struct {
	Hits   []FetchHitRef `json:"hits"`
	Source *SourceParam  `json:"_source,omitempty"`
}

// SourceParam is the _source option of a fetch request. It accepts a
// boolean, a single pattern, a list of include patterns, or an object with
// includes and excludes.
type SourceParam struct {
	Fetch    bool
	Includes []string
	Excludes []string
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *SourceParam) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("empty _source")
	}
	*p = SourceParam{Fetch: true}
	switch b[0] {
	case 't', 'f':
		return json.Unmarshal(b, &p.Fetch)
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		p.Includes = []string{s}
		return nil
	case '[':
		return json.Unmarshal(b, &p.Includes)
	case '{':
		var obj struct {
			Includes []string `json:"includes"`
			Excludes []string `json:"excludes"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		p.Includes, p.Excludes = obj.Includes, obj.Excludes
		return nil
	case 'n':
		return nil
	default:
		return fmt.Errorf("_source must be a boolean, string, array or object")
	}
}

// NestedIdentityResponse is the recursive nested identity of a hit.
type NestedIdentityResponse struct {
	Field  string                  `json:"field"`
	Offset int                     `json:"offset"`
	Child  *NestedIdentityResponse `json:"_nested,omitempty"`
}

// HitResponse is one fetched hit. Source is embedded JSON for json indices
// and base64 for the other content types.
type HitResponse struct {
	Index  string                  `json:"_index"`
	ID     string                  `json:"_id"`
	Score  float64                 `json:"_score"`
	Nested *NestedIdentityResponse `json:"_nested,omitempty"`
	Source any                     `json:"_source,omitempty"`
}

// FetchResponse is the body of a successful fetch.
type FetchResponse struct {
	ContentType string        `json:"content_type"`
	Hits        []HitResponse `json:"hits"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Version string            `json:"version"`
}
