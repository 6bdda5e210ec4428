package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/hitsource/internal/domain"
	domdoc "github.com/kailas-cloud/hitsource/internal/domain/document"
	domidx "github.com/kailas-cloud/hitsource/internal/domain/index"
	"github.com/kailas-cloud/hitsource/internal/domain/search/hit"
	"github.com/kailas-cloud/hitsource/internal/domain/source/codec"
	"github.com/kailas-cloud/hitsource/internal/domain/source/filter"
	"github.com/kailas-cloud/hitsource/internal/domain/source/nested"
	documentuc "github.com/kailas-cloud/hitsource/internal/usecase/document"
	fetchuc "github.com/kailas-cloud/hitsource/internal/usecase/fetch"
	healthuc "github.com/kailas-cloud/hitsource/internal/usecase/health"
	indexuc "github.com/kailas-cloud/hitsource/internal/usecase/index"
	"github.com/kailas-cloud/hitsource/internal/version"
)

const defaultMaxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the hitsource HTTP API.
type Server struct {
	indices       *indexuc.Service
	documents     *documentuc.Service
	fetch         *fetchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	maxBodyBytes  int64
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	indices *indexuc.Service,
	documents *documentuc.Service,
	fetch *fetchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		indices:      indices,
		documents:    documents,
		fetch:        fetch,
		health:       health,
		logger:       logger,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrIndexNotFound, http.StatusNotFound, ErrorCodeIndexNotFound),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, ErrorCodeDocumentNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, ErrorCodeIndexAlreadyExists),
		detailedHandler(domain.ErrUnsupportedContentType,
			http.StatusUnsupportedMediaType, ErrorCodeUnsupportedContentType),
		detailedHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeValidationFailed),
		detailedHandler(domain.ErrSourceDisabled, http.StatusBadRequest, ErrorCodeSourceDisabled),
		sentinelHandler(domain.ErrMalformedNestedPath,
			http.StatusInternalServerError, ErrorCodeMalformedNestedPath),
		sentinelHandler(domain.ErrEncoding, http.StatusInternalServerError, ErrorCodeEncodingFailed),
	}
	return s
}

// WithMaxBodyBytes bounds request bodies.
func (s *Server) WithMaxBodyBytes(n int) *Server {
	if n > 0 {
		s.maxBodyBytes = int64(n)
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/indices", func(r chi.Router) {
		r.Get("/", s.ListIndices)
		r.Route("/{index}", func(r chi.Router) {
			r.Put("/", s.CreateIndex)
			r.Get("/", s.GetIndex)
			r.Delete("/", s.DeleteIndex)
			r.Post("/_fetch", s.FetchHits)
			r.Route("/docs/{id}", func(r chi.Router) {
				r.Put("/", s.PutDocument)
				r.Get("/", s.GetDocument)
				r.Delete("/", s.DeleteDocument)
				r.Get("/_source", s.GetSource)
			})
		})
	})
}

// CreateIndex handles PUT /indices/{index}.
func (s *Server) CreateIndex(w http.ResponseWriter, r *http.Request) {
	name, ok := s.bindPath(w, r, "index")
	if !ok {
		return
	}

	var req CreateIndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ct, err := codec.Parse(req.ContentType)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	sourceEnabled := true
	if req.SourceEnabled != nil {
		sourceEnabled = *req.SourceEnabled
	}

	idx, err := s.indices.Create(r.Context(), name, sourceEnabled, ct)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/indices/"+idx.Name())
	writeJSON(w, http.StatusCreated, indexToResponse(idx))
}

// ListIndices handles GET /indices.
func (s *Server) ListIndices(w http.ResponseWriter, r *http.Request) {
	indices, err := s.indices.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]IndexResponse, len(indices))
	for i, idx := range indices {
		items[i] = indexToResponse(idx)
	}
	writeJSON(w, http.StatusOK, IndexListResponse{Items: items})
}

// GetIndex handles GET /indices/{index}.
func (s *Server) GetIndex(w http.ResponseWriter, r *http.Request) {
	name, ok := s.bindPath(w, r, "index")
	if !ok {
		return
	}

	idx, err := s.indices.Get(r.Context(), name)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("ETag", strconv.Quote(strconv.Itoa(idx.Revision())))
	writeJSON(w, http.StatusOK, indexToResponse(idx))
}

// DeleteIndex handles DELETE /indices/{index}.
func (s *Server) DeleteIndex(w http.ResponseWriter, r *http.Request) {
	name, ok := s.bindPath(w, r, "index")
	if !ok {
		return
	}

	if err := s.indices.Delete(r.Context(), name); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PutDocument handles PUT /indices/{index}/docs/{id}. The body is the raw
// source in the index content type.
func (s *Server) PutDocument(w http.ResponseWriter, r *http.Request) {
	index, ok := s.bindPath(w, r, "index")
	if !ok {
		return
	}
	id, ok := s.bindPath(w, r, "id")
	if !ok {
		return
	}

	declared, err := declaredContentType(r)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	raw, ok := s.readBody(w, r)
	if !ok {
		return
	}

	created, err := s.documents.Put(r.Context(), index, id, raw, declared)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status, result := http.StatusOK, "updated"
	if created {
		status, result = http.StatusCreated, "created"
		w.Header().Set("Location", fmt.Sprintf("/indices/%s/docs/%s", index, id))
	}
	writeJSON(w, status, DocumentResponse{Index: index, ID: id, Result: result})
}

// GetDocument handles GET /indices/{index}/docs/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	index, ok := s.bindPath(w, r, "index")
	if !ok {
		return
	}
	id, ok := s.bindPath(w, r, "id")
	if !ok {
		return
	}

	doc, err := s.documents.Get(r.Context(), index, id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentToResponse(index, &doc))
}

// DeleteDocument handles DELETE /indices/{index}/docs/{id}.
func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	index, ok := s.bindPath(w, r, "index")
	if !ok {
		return
	}
	id, ok := s.bindPath(w, r, "id")
	if !ok {
		return
	}

	if err := s.documents.Delete(r.Context(), index, id); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSource handles GET /indices/{index}/docs/{id}/_source.
func (s *Server) GetSource(w http.ResponseWriter, r *http.Request) {
	index, ok := s.bindPath(w, r, "index")
	if !ok {
		return
	}
	id, ok := s.bindPath(w, r, "id")
	if !ok {
		return
	}

	var params GetSourceParams
	if err := params.Bind(r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}
	spec, err := params.Spec()
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	b, ct, err := s.fetch.FetchSource(r.Context(), index, id, spec)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Content-Type", ct.MIME())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// FetchHits handles POST /indices/{index}/_fetch.
func (s *Server) FetchHits(w http.ResponseWriter, r *http.Request) {
	index, ok := s.bindPath(w, r, "index")
	if !ok {
		return
	}

	raw, ok := s.readBody(w, r)
	if !ok {
		return
	}
	var req FetchRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	refs, err := refsFromRequest(req.Hits)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}
	spec, err := specFromParam(req.Source)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	res, err := s.fetch.Fetch(r.Context(), index, refs, spec)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	hits := make([]HitResponse, len(res.Hits))
	for i := range res.Hits {
		hits[i] = hitToResponse(&res.Hits[i], res.ContentType)
	}
	writeJSON(w, http.StatusOK, FetchResponse{ContentType: res.ContentType.String(), Hits: hits})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Checks:  checks,
		Version: version.String(),
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return nil, false
	}
	return raw, true
}

// declaredContentType maps the request Content-Type to a codec. Missing and
// generic binary types leave the choice to the index.
func declaredContentType(r *http.Request) (codec.ContentType, error) {
	h := r.Header.Get("Content-Type")
	if h == "" || h == "application/octet-stream" {
		return "", nil
	}
	return codec.Parse(h)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrIndexNotFound,
		domain.ErrDocumentNotFound,
		domain.ErrAlreadyExists,
		domain.ErrInvalidRequest,
		domain.ErrUnsupportedContentType,
		domain.ErrSourceDisabled,
		domain.ErrMalformedNestedPath,
		domain.ErrEncoding,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// detailedHandler is a sentinelHandler for client errors whose full message
// tells the caller what to fix.
func detailedHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, _ string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

func indexToResponse(idx domidx.Index) IndexResponse {
	return IndexResponse{
		Name:          idx.Name(),
		SourceEnabled: idx.SourceEnabled(),
		ContentType:   idx.ContentType().String(),
		CreatedAt:     idx.CreatedAt(),
		Revision:      idx.Revision(),
	}
}

func documentToResponse(index string, doc *domdoc.Document) DocumentResponse {
	return DocumentResponse{
		Index:        index,
		ID:           doc.ID(),
		Revision:     doc.Revision(),
		SourceStored: doc.SourceStored(),
	}
}

func refsFromRequest(items []FetchHitRef) ([]fetchuc.HitRef, error) {
	refs := make([]fetchuc.HitRef, len(items))
	for i, item := range items {
		if item.ID == "" {
			return nil, fmt.Errorf("hits[%d]: id is required", i)
		}
		levels := make([]nested.Level, len(item.Nested))
		for j, l := range item.Nested {
			levels[j] = nested.Level{Field: l.Field, Offset: l.Offset}
		}
		nid, err := nested.NewIdentity(levels...)
		if err != nil {
			return nil, fmt.Errorf("hits[%d]: %w", i, err)
		}
		refs[i] = fetchuc.HitRef{ID: item.ID, Score: item.Score, Nested: nid}
	}
	return refs, nil
}

func specFromParam(p *SourceParam) (filter.Spec, error) {
	if p == nil {
		return filter.FetchAll(), nil
	}
	if !p.Fetch {
		return filter.NoSource(), nil
	}
	return filter.NewSpec(true, p.Includes, p.Excludes)
}

func hitToResponse(h *hit.Hit, ct codec.ContentType) HitResponse {
	resp := HitResponse{
		Index:  h.Index(),
		ID:     h.ID(),
		Score:  h.Score(),
		Nested: nestedToResponse(h.NestedIdentity().Levels()),
	}
	if h.HasSource() {
		if ct == codec.JSON {
			resp.Source = json.RawMessage(h.Source())
		} else {
			resp.Source = h.Source()
		}
	}
	return resp
}

func nestedToResponse(levels []nested.Level) *NestedIdentityResponse {
	if len(levels) == 0 {
		return nil
	}
	return &NestedIdentityResponse{
		Field:  levels[0].Field,
		Offset: levels[0].Offset,
		Child:  nestedToResponse(levels[1:]),
	}
}
