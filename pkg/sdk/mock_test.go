package hitsource

import (
	"context"

	domdoc "github.com/kailas-cloud/hitsource/internal/domain/document"
	domidx "github.com/kailas-cloud/hitsource/internal/domain/index"
	"github.com/kailas-cloud/hitsource/internal/domain/source/codec"
	"github.com/kailas-cloud/hitsource/internal/domain/source/filter"
	fetchuc "github.com/kailas-cloud/hitsource/internal/usecase/fetch"
	healthuc "github.com/kailas-cloud/hitsource/internal/usecase/health"
)

// --- indexUseCase mock ---

type mockIndexUC struct {
	createFn func(ctx context.Context, name string, sourceEnabled bool, ct codec.ContentType) (domidx.Index, error)
	getFn    func(ctx context.Context, name string) (domidx.Index, error)
	listFn   func(ctx context.Context) ([]domidx.Index, error)
	deleteFn func(ctx context.Context, name string) error
}

func (m *mockIndexUC) Create(
	ctx context.Context, name string, sourceEnabled bool, ct codec.ContentType,
) (domidx.Index, error) {
	return m.createFn(ctx, name, sourceEnabled, ct)
}

func (m *mockIndexUC) Get(ctx context.Context, name string) (domidx.Index, error) {
	return m.getFn(ctx, name)
}

func (m *mockIndexUC) List(ctx context.Context) ([]domidx.Index, error) {
	return m.listFn(ctx)
}

func (m *mockIndexUC) Delete(ctx context.Context, name string) error {
	return m.deleteFn(ctx, name)
}

// --- documentUseCase mock ---

type mockDocumentUC struct {
	putFn    func(ctx context.Context, index, id string, raw []byte, declared codec.ContentType) (bool, error)
	getFn    func(ctx context.Context, index, id string) (domdoc.Document, error)
	deleteFn func(ctx context.Context, index, id string) error
}

func (m *mockDocumentUC) Put(
	ctx context.Context, index, id string, raw []byte, declared codec.ContentType,
) (bool, error) {
	return m.putFn(ctx, index, id, raw, declared)
}

func (m *mockDocumentUC) Get(ctx context.Context, index, id string) (domdoc.Document, error) {
	return m.getFn(ctx, index, id)
}

func (m *mockDocumentUC) Delete(ctx context.Context, index, id string) error {
	return m.deleteFn(ctx, index, id)
}

// --- fetchUseCase mock ---

type mockFetchUC struct {
	fetchFn  func(ctx context.Context, index string, refs []fetchuc.HitRef, spec filter.Spec) (fetchuc.Result, error)
	sourceFn func(ctx context.Context, index, id string, spec filter.Spec) ([]byte, codec.ContentType, error)
}

func (m *mockFetchUC) Fetch(
	ctx context.Context, index string, refs []fetchuc.HitRef, spec filter.Spec,
) (fetchuc.Result, error) {
	return m.fetchFn(ctx, index, refs, spec)
}

func (m *mockFetchUC) FetchSource(
	ctx context.Context, index, id string, spec filter.Spec,
) ([]byte, codec.ContentType, error) {
	return m.sourceFn(ctx, index, id, spec)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(indexSvc indexUseCase, docSvc documentUseCase, fetchSvc fetchUseCase) *Client {
	return &Client{
		indexSvc: indexSvc,
		docSvc:   docSvc,
		fetchSvc: fetchSvc,
	}
}
