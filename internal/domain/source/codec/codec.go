// Package codec decodes stored sources into trees and encodes trees back
// into the source's content type.
package codec

import (
	"bytes"
	"fmt"

	"github.com/kailas-cloud/hitsource/internal/domain"
	"github.com/kailas-cloud/hitsource/internal/domain/source/tree"
)

// DefaultCapacity is the initial output buffer size when no better size
// hint exists, and the ceiling applied to hints.
const DefaultCapacity = 1024

// maxDepth bounds container nesting on decode.
const maxDepth = 1000

type format interface {
	decode(data []byte) (*tree.Mapping, error)
	encode(buf *bytes.Buffer, v tree.Value) error
}

var formats = map[ContentType]format{
	JSON:    jsonFormat{},
	YAML:    yamlFormat{},
	CBOR:    cborFormat{},
	MsgPack: msgpackFormat{},
}

// Codec is the default decoder/encoder over all supported content types.
type Codec struct{}

// Decode parses data into a mapping. The document root must be an object.
func (Codec) Decode(data []byte, ct ContentType) (*tree.Mapping, error) {
	return Decode(data, ct)
}

// Encode serializes v.
func (Codec) Encode(v tree.Value, ct ContentType, sizeHint int) ([]byte, error) {
	return Encode(v, ct, sizeHint)
}

// Decode parses data into a mapping. The document root must be an object.
func Decode(data []byte, ct ContentType) (*tree.Mapping, error) {
	f, ok := formats[ct]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedContentType, ct)
	}
	m, err := f.decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ct, err)
	}
	return m, nil
}

// Encode serializes v into ct. sizeHint (usually the raw source length)
// sizes the output buffer; see InitialCapacity.
func Encode(v tree.Value, ct ContentType, sizeHint int) ([]byte, error) {
	f, ok := formats[ct]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedContentType, ct)
	}
	buf := bytes.NewBuffer(make([]byte, 0, InitialCapacity(sizeHint)))
	if err := f.encode(buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// InitialCapacity returns min(DefaultCapacity, sizeHint), or DefaultCapacity
// when there is no usable hint.
func InitialCapacity(sizeHint int) int {
	if sizeHint <= 0 || sizeHint > DefaultCapacity {
		return DefaultCapacity
	}
	return sizeHint
}

func errTooDeep() error {
	return fmt.Errorf("document nesting exceeds %d levels", maxDepth)
}
