package index

import (
	"fmt"
	"regexp"
	"time"

	"github.com/kailas-cloud/hitsource/internal/domain/source/codec"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxNameLength bounds index names.
const MaxNameLength = 64

// Index holds the per-index source settings (immutable value object).
type Index struct {
	name          string
	sourceEnabled bool
	contentType   codec.ContentType
	createdAt     int64
	revision      int
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("index name is required")
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("index name too long (max %d)", MaxNameLength)
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("index name must be alphanumeric with underscores and hyphens")
	}
	return nil
}

// New validates and creates an Index. An empty content type means JSON.
func New(name string, sourceEnabled bool, ct codec.ContentType) (Index, error) {
	if err := validateName(name); err != nil {
		return Index{}, err
	}
	if ct == "" {
		ct = codec.JSON
	}
	if !ct.IsValid() {
		return Index{}, fmt.Errorf("unsupported content type %q", ct)
	}

	return Index{
		name:          name,
		sourceEnabled: sourceEnabled,
		contentType:   ct,
		createdAt:     time.Now().UnixMilli(),
		revision:      1,
	}, nil
}

// Reconstruct creates an Index without validation (storage hydration).
func Reconstruct(name string, sourceEnabled bool, ct codec.ContentType, createdAt int64, revision int) Index {
	if ct == "" {
		ct = codec.JSON
	}
	return Index{
		name:          name,
		sourceEnabled: sourceEnabled,
		contentType:   ct,
		createdAt:     createdAt,
		revision:      revision,
	}
}

// Name returns the index name.
func (i Index) Name() string { return i.name }

// SourceEnabled reports whether raw sources are stored.
func (i Index) SourceEnabled() bool { return i.sourceEnabled }

// ContentType returns the serialization format of stored sources.
func (i Index) ContentType() codec.ContentType { return i.contentType }

// CreatedAt returns the creation timestamp (unix millis).
func (i Index) CreatedAt() int64 { return i.createdAt }

// Revision returns the optimistic concurrency version.
func (i Index) Revision() int { return i.revision }
