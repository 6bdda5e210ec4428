package codec

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/hitsource/internal/domain"
)

// ContentType identifies the serialization format of a stored source.
type ContentType string

const (
	// JSON is the default text format.
	JSON ContentType = "json"
	// YAML is the YAML text format.
	YAML ContentType = "yaml"
	// CBOR is the CBOR binary format (RFC 8949).
	CBOR ContentType = "cbor"
	// MsgPack is the MessagePack binary format.
	MsgPack ContentType = "msgpack"
)

var mimeTypes = map[ContentType]string{
	JSON:    "application/json",
	YAML:    "application/yaml",
	CBOR:    "application/cbor",
	MsgPack: "application/msgpack",
}

var aliases = map[string]ContentType{
	"json":                  JSON,
	"application/json":      JSON,
	"yaml":                  YAML,
	"yml":                   YAML,
	"application/yaml":      YAML,
	"application/x-yaml":    YAML,
	"text/yaml":             YAML,
	"cbor":                  CBOR,
	"application/cbor":      CBOR,
	"msgpack":               MsgPack,
	"application/msgpack":   MsgPack,
	"application/x-msgpack": MsgPack,
}

// Parse resolves a short name or MIME type (parameters ignored) to a
// ContentType. An empty string means JSON.
func Parse(s string) (ContentType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if s == "" {
		return JSON, nil
	}
	ct, ok := aliases[s]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedContentType, s)
	}
	return ct, nil
}

// IsValid reports whether the content type has a codec.
func (c ContentType) IsValid() bool {
	_, ok := mimeTypes[c]
	return ok
}

// MIME returns the media type used on the wire.
func (c ContentType) MIME() string {
	if m, ok := mimeTypes[c]; ok {
		return m
	}
	return "application/octet-stream"
}

func (c ContentType) String() string { return string(c) }
