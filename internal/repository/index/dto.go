package index

import (
	"fmt"
	"strconv"

	"github.com/kailas-cloud/hitsource/internal/domain/index"
	"github.com/kailas-cloud/hitsource/internal/domain/source/codec"
)

// indexToHash converts index settings to a map for HSET.
func indexToHash(idx index.Index) map[string]string {
	return map[string]string{
		"name":           idx.Name(),
		"source_enabled": strconv.FormatBool(idx.SourceEnabled()),
		"content_type":   idx.ContentType().String(),
		"created_at":     strconv.FormatInt(idx.CreatedAt(), 10),
		"revision":       strconv.Itoa(idx.Revision()),
	}
}

// indexFromHash hydrates index settings from an HGETALL result map.
func indexFromHash(m map[string]string) (index.Index, error) {
	name := m["name"]
	if name == "" {
		return index.Index{}, fmt.Errorf("missing name")
	}

	createdAt, err := strconv.ParseInt(m["created_at"], 10, 64)
	if err != nil {
		return index.Index{}, fmt.Errorf("invalid created_at: %w", err)
	}

	sourceEnabled := true
	if v, ok := m["source_enabled"]; ok && v != "" {
		sourceEnabled, err = strconv.ParseBool(v)
		if err != nil {
			return index.Index{}, fmt.Errorf("invalid source_enabled: %w", err)
		}
	}

	ct := codec.ContentType(m["content_type"])
	if ct != "" && !ct.IsValid() {
		return index.Index{}, fmt.Errorf("invalid content_type %q", ct)
	}

	revision := 1
	if revStr, ok := m["revision"]; ok && revStr != "" {
		if parsed, err := strconv.Atoi(revStr); err == nil {
			revision = parsed
		}
	}

	return index.Reconstruct(name, sourceEnabled, ct, createdAt, revision), nil
}
