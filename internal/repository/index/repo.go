package index

import (
	"context"
	"fmt"
	"sort"

	"github.com/kailas-cloud/hitsource/internal/domain"
	domidx "github.com/kailas-cloud/hitsource/internal/domain/index"
)

// store is the consumer interface for index settings (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements usecase/index.Repository.
type Repo struct {
	store  store
	prefix string
}

// New creates an index repository. prefix namespaces all keys, e.g. "hitsource:".
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: prefix}
}

// Create stores index settings. Returns domain.ErrAlreadyExists for a taken name.
func (r *Repo) Create(ctx context.Context, idx domidx.Index) error {
	key := r.metaKey(idx.Name())
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return fmt.Errorf("index %q: %w", idx.Name(), domain.ErrAlreadyExists)
	}

	if err := r.store.HSet(ctx, key, indexToHash(idx)); err != nil {
		return fmt.Errorf("hset index %s: %w", idx.Name(), err)
	}
	return nil
}

// Get retrieves index settings by name.
func (r *Repo) Get(ctx context.Context, name string) (domidx.Index, error) {
	m, err := r.store.HGetAll(ctx, r.metaKey(name))
	if err != nil {
		return domidx.Index{}, fmt.Errorf("hgetall index %s: %w", name, err)
	}
	if len(m) == 0 {
		return domidx.Index{}, fmt.Errorf("index %q: %w", name, domain.ErrIndexNotFound)
	}
	return indexFromHash(m)
}

// List returns all indices sorted by CreatedAt.
func (r *Repo) List(ctx context.Context) ([]domidx.Index, error) {
	keys, err := r.store.Scan(ctx, r.metaKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan indices: %w", err)
	}
	if len(keys) == 0 {
		return []domidx.Index{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi indices: %w", err)
	}

	indices := make([]domidx.Index, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		idx, err := indexFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse index %s: %w", keys[i], err)
		}
		indices = append(indices, idx)
	}

	sort.Slice(indices, func(i, j int) bool {
		if indices[i].CreatedAt() == indices[j].CreatedAt() {
			return indices[i].Name() < indices[j].Name()
		}
		return indices[i].CreatedAt() < indices[j].CreatedAt()
	})

	return indices, nil
}

// Delete removes index settings.
func (r *Repo) Delete(ctx context.Context, name string) error {
	key := r.metaKey(name)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return fmt.Errorf("index %q: %w", name, domain.ErrIndexNotFound)
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del index %s: %w", name, err)
	}
	return nil
}

// Key pattern: {prefix}idx:{name}

func (r *Repo) metaKey(name string) string {
	return fmt.Sprintf("%sidx:%s", r.prefix, name)
}
