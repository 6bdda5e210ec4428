package hitsource

import "github.com/kailas-cloud/hitsource/internal/domain/source/filter"

// SourceOption narrows the _source returned for a hit.
type SourceOption interface {
	applySource(*sourceConfig)
}

type sourceOptionFunc func(*sourceConfig)

func (f sourceOptionFunc) applySource(c *sourceConfig) { f(c) }

type sourceConfig struct {
	disabled bool
	includes []string
	excludes []string
}

// Includes keeps only fields matching the patterns. "*" matches within a
// path segment; "a.b" also keeps everything below a.b.
func Includes(patterns ...string) SourceOption {
	return sourceOptionFunc(func(c *sourceConfig) {
		c.includes = append(c.includes, patterns...)
	})
}

// Excludes drops fields matching the patterns. Excludes win over includes.
func Excludes(patterns ...string) SourceOption {
	return sourceOptionFunc(func(c *sourceConfig) {
		c.excludes = append(c.excludes, patterns...)
	})
}

// NoSource fetches hits without their _source.
func NoSource() SourceOption {
	return sourceOptionFunc(func(c *sourceConfig) {
		c.disabled = true
	})
}

func buildSpec(opts []SourceOption) (filter.Spec, error) {
	cfg := &sourceConfig{}
	for _, o := range opts {
		o.applySource(cfg)
	}
	if cfg.disabled {
		return filter.NoSource(), nil
	}
	return filter.NewSpec(true, cfg.includes, cfg.excludes)
}
