package document

import (
	"bytes"
	"fmt"
	"regexp"
)

var (
	idRegex     = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	reservedIDs = map[string]bool{"_source": true, "_fetch": true}
)

// DefaultMaxSourceSize is the source size limit used when none is configured.
const DefaultMaxSourceSize = 1 << 20 // 1MB

// Document is a stored source (immutable value object). A document of an
// index with source disabled is registered without its raw bytes.
type Document struct {
	id       string
	source   []byte
	stored   bool
	revision int
}

// ValidateID checks a document identifier.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars, not reserved.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("document ID is required")
	}
	if len(id) > 256 {
		return fmt.Errorf("document ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return fmt.Errorf("document ID must be alphanumeric with underscores and hyphens")
	}
	if reservedIDs[id] {
		return fmt.Errorf("document ID %q is reserved", id)
	}
	return nil
}

// New validates and creates a Document holding a copy of source.
// maxSize <= 0 means DefaultMaxSourceSize.
func New(id string, source []byte, maxSize int) (Document, error) {
	if err := ValidateID(id); err != nil {
		return Document{}, err
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSourceSize
	}
	if len(source) == 0 {
		return Document{}, fmt.Errorf("source is required")
	}
	if len(source) > maxSize {
		return Document{}, fmt.Errorf("source too large (max %d bytes)", maxSize)
	}

	return Document{
		id:       id,
		source:   bytes.Clone(source),
		stored:   true,
		revision: 1,
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(id string, source []byte, stored bool, revision int) Document {
	if !stored {
		source = nil
	}
	return Document{id: id, source: source, stored: stored, revision: revision}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Source returns the raw stored bytes, nil when the source is not stored.
func (d *Document) Source() []byte { return d.source }

// SourceStored reports whether raw bytes were kept.
func (d *Document) SourceStored() bool { return d.stored }

// Revision returns the document revision number.
func (d *Document) Revision() int { return d.revision }

// WithoutSource returns a copy that keeps only the document's existence.
func (d *Document) WithoutSource() Document {
	return Document{id: d.id, revision: d.revision}
}
