package hitsource

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "valkey" or "redis"
	addrs    []string
	password string

	keyPrefix     string
	nestedOrder   string
	workers       int
	maxHits       int
	maxSourceSize int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithValkey configures the client to connect to a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKeyPrefix sets the prefix of every key the client writes.
// Default: "hitsource:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithNestedFilterOrder selects how field patterns apply to nested hits:
// "filter_then_resolve" (default, full paths) or "resolve_then_filter"
// (paths relative to the nested object).
func WithNestedFilterOrder(order string) Option {
	return optionFunc(func(c *clientConfig) {
		c.nestedOrder = order
	})
}

// WithFetchLimits bounds the fetch phase: concurrent projections and hits
// per call. Defaults: 8 workers, 1000 hits.
func WithFetchLimits(workers, maxHits int) Option {
	return optionFunc(func(c *clientConfig) {
		c.workers = workers
		c.maxHits = maxHits
	})
}

// WithMaxSourceSize sets the largest accepted source in bytes. Default: 1MB.
func WithMaxSourceSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxSourceSize = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
