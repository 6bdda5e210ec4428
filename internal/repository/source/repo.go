package source

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kailas-cloud/hitsource/internal/domain"
	domdoc "github.com/kailas-cloud/hitsource/internal/domain/document"
)

const (
	fieldSource   = "source"
	fieldStored   = "stored"
	fieldRevision = "revision"
)

// store is the consumer interface for stored sources (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	DelMulti(ctx context.Context, keys []string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements the document source repository used by the usecases.
type Repo struct {
	store  store
	prefix string
}

// New creates a source repository. prefix namespaces all keys.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Upsert stores a document's source. Returns true if the document was created.
// Revisions increase by one on every overwrite.
func (r *Repo) Upsert(ctx context.Context, index string, doc *domdoc.Document) (bool, error) {
	key := r.docKey(index, doc.ID())

	current, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return false, fmt.Errorf("hgetall %s: %w", key, err)
	}
	created := len(current) == 0
	revision := doc.Revision()
	if !created {
		revision = parseRevision(current[fieldRevision]) + 1
	}

	stored := "0"
	if doc.SourceStored() {
		stored = "1"
	}
	fields := map[string]string{
		fieldSource:   string(doc.Source()),
		fieldStored:   stored,
		fieldRevision: strconv.Itoa(revision),
	}
	if err := r.store.HSet(ctx, key, fields); err != nil {
		return false, fmt.Errorf("hset %s: %w", key, err)
	}
	return created, nil
}

// Get returns a document by ID.
func (r *Repo) Get(ctx context.Context, index, id string) (domdoc.Document, error) {
	key := r.docKey(index, id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return domdoc.Document{}, fmt.Errorf("document %q in index %q: %w", id, index, domain.ErrDocumentNotFound)
	}
	return fromHash(id, m), nil
}

// GetMulti loads several documents in one round trip. The result is aligned
// with ids; missing documents are reported as not found.
func (r *Repo) GetMulti(ctx context.Context, index string, ids []string) ([]domdoc.Document, error) {
	if len(ids) == 0 {
		return []domdoc.Document{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.docKey(index, id)
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi %s: %w", index, err)
	}
	if len(results) != len(ids) {
		return nil, fmt.Errorf("hgetall multi %s: got %d results for %d keys", index, len(results), len(ids))
	}

	docs := make([]domdoc.Document, len(ids))
	for i, m := range results {
		if len(m) == 0 {
			return nil, fmt.Errorf("document %q in index %q: %w", ids[i], index, domain.ErrDocumentNotFound)
		}
		docs[i] = fromHash(ids[i], m)
	}
	return docs, nil
}

// Delete removes a document.
func (r *Repo) Delete(ctx context.Context, index, id string) error {
	key := r.docKey(index, id)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return fmt.Errorf("document %q in index %q: %w", id, index, domain.ErrDocumentNotFound)
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// DeleteAll removes every document of an index and returns how many were removed.
func (r *Repo) DeleteAll(ctx context.Context, index string) (int, error) {
	keys, err := r.store.Scan(ctx, r.docKey(index, "*"))
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", index, err)
	}
	if len(keys) == 0 {
		return 0, nil
	}
	if err := r.store.DelMulti(ctx, keys); err != nil {
		return 0, fmt.Errorf("del multi %s: %w", index, err)
	}
	return len(keys), nil
}

// Key pattern: {prefix}src:{index}:{id}

func (r *Repo) docKey(index, id string) string {
	return fmt.Sprintf("%ssrc:%s:%s", r.prefix, index, id)
}

func fromHash(id string, m map[string]string) domdoc.Document {
	stored := m[fieldStored] != "0"
	var src []byte
	if stored {
		src = []byte(m[fieldSource])
	}
	return domdoc.Reconstruct(id, src, stored, parseRevision(m[fieldRevision]))
}

func parseRevision(s string) int {
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return 1
}
