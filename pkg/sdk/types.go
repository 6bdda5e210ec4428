package hitsource

// ContentType names the serialization an index stores sources in.
type ContentType string

// Content type constants.
const (
	ContentTypeJSON    ContentType = "json"
	ContentTypeYAML    ContentType = "yaml"
	ContentTypeCBOR    ContentType = "cbor"
	ContentTypeMsgPack ContentType = "msgpack"
)

// IndexInfo represents index metadata.
type IndexInfo struct {
	Name          string
	SourceEnabled bool
	ContentType   ContentType
	CreatedAt     int64
	Revision      int
}

// DocumentInfo represents stored document metadata.
type DocumentInfo struct {
	ID           string
	Revision     int
	SourceStored bool
}

// NestedLevel is one level of a nested hit identity, outermost first.
type NestedLevel struct {
	Field  string
	Offset int
}

// HitRef identifies a hit produced by the query phase.
type HitRef struct {
	ID     string
	Score  float64
	Nested []NestedLevel // empty for top-level hits
}

// Hit is a fetched search hit. Source is nil when not requested.
type Hit struct {
	Index  string
	ID     string
	Score  float64
	Nested []NestedLevel
	Source []byte
}

// FetchResult is a fetched page of hits. Sources are encoded in ContentType.
type FetchResult struct {
	ContentType ContentType
	Hits        []Hit
}
