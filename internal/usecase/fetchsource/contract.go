package fetchsource

import (
	"github.com/kailas-cloud/hitsource/internal/domain/source/codec"
	"github.com/kailas-cloud/hitsource/internal/domain/source/tree"
)

// Decoder parses raw source bytes into a tree.
type Decoder interface {
	Decode(data []byte, ct codec.ContentType) (*tree.Mapping, error)
}

// Encoder serializes a projected value back into a content type.
type Encoder interface {
	Encode(v tree.Value, ct codec.ContentType, sizeHint int) ([]byte, error)
}

// Recorder observes projection outcomes. Implementations must be safe for
// concurrent use.
type Recorder interface {
	RecordProjection(path Path, ct codec.ContentType, size int)
	RecordProjectionError(reason Reason)
}

// Path is the route a projection took.
type Path string

// Projection paths.
const (
	PathSkipped  Path = "skipped"
	PathRaw      Path = "raw"
	PathFiltered Path = "filtered"
	PathNested   Path = "nested"
)

// Reason classifies projection failures.
type Reason string

// Failure reasons.
const (
	ReasonSourceDisabled Reason = "source_disabled"
	ReasonDecode         Reason = "decode"
	ReasonNestedPath     Reason = "malformed_nested_path"
	ReasonEncoding       Reason = "encoding"
)

type nopRecorder struct{}

func (nopRecorder) RecordProjection(Path, codec.ContentType, int) {}
func (nopRecorder) RecordProjectionError(Reason)                  {}
