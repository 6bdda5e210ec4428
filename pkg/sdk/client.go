package hitsource

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/hitsource/internal/db"
	dbRedis "github.com/kailas-cloud/hitsource/internal/db/redis"
	domdoc "github.com/kailas-cloud/hitsource/internal/domain/document"
	domidx "github.com/kailas-cloud/hitsource/internal/domain/index"
	"github.com/kailas-cloud/hitsource/internal/domain/source/codec"
	"github.com/kailas-cloud/hitsource/internal/domain/source/filter"
	indexrepo "github.com/kailas-cloud/hitsource/internal/repository/index"
	sourcerepo "github.com/kailas-cloud/hitsource/internal/repository/source"
	documentuc "github.com/kailas-cloud/hitsource/internal/usecase/document"
	fetchuc "github.com/kailas-cloud/hitsource/internal/usecase/fetch"
	"github.com/kailas-cloud/hitsource/internal/usecase/fetchsource"
	healthuc "github.com/kailas-cloud/hitsource/internal/usecase/health"
	indexuc "github.com/kailas-cloud/hitsource/internal/usecase/index"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultKeyPrefix        = "hitsource:"
)

// Use case seams, replaced by mocks in tests.
type indexUseCase interface {
	Create(ctx context.Context, name string, sourceEnabled bool, ct codec.ContentType) (domidx.Index, error)
	Get(ctx context.Context, name string) (domidx.Index, error)
	List(ctx context.Context) ([]domidx.Index, error)
	Delete(ctx context.Context, name string) error
}

type documentUseCase interface {
	Put(ctx context.Context, index, id string, raw []byte, declared codec.ContentType) (bool, error)
	Get(ctx context.Context, index, id string) (domdoc.Document, error)
	Delete(ctx context.Context, index, id string) error
}

type fetchUseCase interface {
	Fetch(ctx context.Context, index string, refs []fetchuc.HitRef, spec filter.Spec) (fetchuc.Result, error)
	FetchSource(ctx context.Context, index, id string, spec filter.Spec) ([]byte, codec.ContentType, error)
}

// Client is the hitsource SDK entry point.
type Client struct {
	store     db.Store
	indexSvc  indexUseCase
	docSvc    documentUseCase
	fetchSvc  fetchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a hitsource Client and connects to the database.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{keyPrefix: defaultKeyPrefix}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("hitsource: database address required (use WithValkey or WithRedis)")
	}
	order, err := fetchsource.ParseNestedOrder(cfg.nestedOrder)
	if err != nil {
		return nil, fmt.Errorf("hitsource: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("hitsource: database not ready: %w", err)
	}

	return wireClient(store, cfg, order, obs), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:      cfg.addrs,
			Password:   cfg.password,
			ClientName: "hitsource-sdk",
		})
		if err != nil {
			return nil, fmt.Errorf("hitsource: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("hitsource: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, order fetchsource.NestedOrder, obs *observer) *Client {
	indexRepo := indexrepo.New(store, cfg.keyPrefix)
	sourceRepo := sourcerepo.New(store, cfg.keyPrefix)

	projector := fetchsource.New(codec.Codec{}).WithNestedOrder(order)

	return &Client{
		store:    store,
		indexSvc: indexuc.New(indexRepo, sourceRepo),
		docSvc: documentuc.New(sourceRepo, indexRepo, codec.Codec{}).
			WithMaxSourceSize(cfg.maxSourceSize),
		fetchSvc: fetchuc.New(indexRepo, sourceRepo, projector, codec.Codec{}).
			WithLimits(cfg.workers, cfg.maxHits),
		healthSvc: healthuc.New(store),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Indices returns the index management service.
func (c *Client) Indices() *IndexService {
	return &IndexService{svc: c.indexSvc, obs: c.obs}
}

// Documents returns the document service for a given index.
func (c *Client) Documents(index string) *DocumentService {
	return &DocumentService{
		index:    index,
		docSvc:   c.docSvc,
		fetchSvc: c.fetchSvc,
		obs:      c.obs,
	}
}

// Fetch returns the fetch service for a given index.
func (c *Client) Fetch(index string) *FetchService {
	return &FetchService{index: index, svc: c.fetchSvc, obs: c.obs}
}
