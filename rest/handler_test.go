package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"search-adapter/domain"
	"search-adapter/logger"
	"search-adapter/usecase"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// fakeEngine implements port.SearchEngine for handler tests.
type fakeEngine struct {
	raw *domain.RawResult
	err error

	upserted    int
	deletedKeys []string
	adminCalls  []string
	exists      bool
}

func (f *fakeEngine) Search(_ context.Context, req domain.SearchRequest) (*domain.RawResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.raw, nil
}

func (f *fakeEngine) SearchPage(_ context.Context, req domain.SearchRequest, page, perPage int) (*domain.RawResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if perPage <= 0 {
		return nil, &domain.InvalidRequestError{Reason: "per-page size must be positive"}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.raw, nil
}

func (f *fakeEngine) Upsert(_ context.Context, records []domain.Searchable) error {
	if f.err != nil {
		return f.err
	}
	f.upserted += len(records)
	return nil
}

func (f *fakeEngine) Delete(_ context.Context, keys []string) error {
	if f.err != nil {
		return f.err
	}
	f.deletedKeys = append(f.deletedKeys, keys...)
	return nil
}

func (f *fakeEngine) IndexExists(_ context.Context, d domain.IndexDescriptor) (bool, error) {
	f.adminCalls = append(f.adminCalls, "exists:"+d.Name)
	return f.exists, f.err
}

func (f *fakeEngine) CreateIndex(_ context.Context, d domain.IndexDescriptor) error {
	f.adminCalls = append(f.adminCalls, "create:"+d.Name)
	return f.err
}

func (f *fakeEngine) DeleteIndex(_ context.Context, d domain.IndexDescriptor) error {
	f.adminCalls = append(f.adminCalls, "delete:"+d.Name)
	return f.err
}

func (f *fakeEngine) PutMapping(_ context.Context, d domain.IndexDescriptor) error {
	f.adminCalls = append(f.adminCalls, "mapping:"+d.Name)
	return f.err
}

// fakeStore implements port.RecordStore for handler tests.
type fakeStore struct {
	records map[string]*domain.Record
}

func (f *fakeStore) GetByKeys(_ context.Context, keys []string) ([]*domain.Record, error) {
	var out []*domain.Record
	for _, key := range keys {
		if r, ok := f.records[key]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(context.Context) error { return f.err }

func newTestHandler(engine *fakeEngine, store *fakeStore, pinger Pinger) *Handler {
	if store == nil {
		store = &fakeStore{}
	}
	if pinger == nil {
		pinger = &fakePinger{}
	}
	mapper := usecase.NewResultMapper(store)
	descriptor := domain.IndexDescriptor{Name: "records", DocType: "record"}
	return NewHandler(
		usecase.NewSearchRecordsUsecase(engine, mapper),
		usecase.NewSearchRecordsPaginatedUsecase(engine, mapper),
		usecase.NewSearchKeysUsecase(engine),
		usecase.NewIndexRecordsUsecase(store, engine),
		usecase.NewManageIndexUsecase(engine),
		pinger,
		descriptor,
	)
}

func doJSON(handler echo.HandlerFunc, method, target, body string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, handler(c)
}

func TestHandler_SearchRecords(t *testing.T) {
	engine := &fakeEngine{raw: &domain.RawResult{
		Hits:  []domain.Hit{{Key: "b", Score: 2}, {Key: "a", Score: 1}},
		Total: 2,
	}}
	store := &fakeStore{records: map[string]*domain.Record{
		"a": {ID: "a", Title: "Alpha"},
		"b": {ID: "b", Title: "Beta"},
	}}
	h := newTestHandler(engine, store, nil)

	rec, err := doJSON(h.SearchRecords, http.MethodPost, "/v1/search", `{"query":"beta"}`)
	if err != nil {
		t.Fatalf("SearchRecords() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Total)
	}
	if len(resp.Records) != 2 || resp.Records[0].ID != "b" || resp.Records[1].ID != "a" {
		t.Errorf("records out of relevance order: %+v", resp.Records)
	}
}

func TestHandler_SearchRecords_Paginated(t *testing.T) {
	engine := &fakeEngine{raw: &domain.RawResult{
		Hits:  []domain.Hit{{Key: "a", Score: 1}},
		Total: 11,
	}}
	store := &fakeStore{records: map[string]*domain.Record{"a": {ID: "a"}}}
	h := newTestHandler(engine, store, nil)

	rec, err := doJSON(h.SearchRecords, http.MethodPost, "/v1/search",
		`{"query":"x","page":2,"per_page":10}`)
	if err != nil {
		t.Fatalf("SearchRecords() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.PerPage != 10 {
		t.Errorf("per_page = %d, want 10", resp.PerPage)
	}
	if resp.PageCount != 2 {
		t.Errorf("page_count = %d, want 2", resp.PageCount)
	}
}

func TestHandler_SearchRecords_Errors(t *testing.T) {
	tests := []struct {
		name       string
		engine     *fakeEngine
		body       string
		wantStatus int
	}{
		{
			name:       "empty query without filters",
			engine:     &fakeEngine{},
			body:       `{"query":"   "}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "backend unavailable",
			engine:     &fakeEngine{err: &domain.BackendUnavailableError{Op: "Search", Err: "down"}},
			body:       `{"query":"x"}`,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "malformed body",
			engine:     &fakeEngine{},
			body:       `{invalid`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(tt.engine, nil, nil)
			rec, err := doJSON(h.SearchRecords, http.MethodPost, "/v1/search", tt.body)
			if err != nil {
				t.Fatalf("SearchRecords() error = %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandler_SearchKeys(t *testing.T) {
	engine := &fakeEngine{raw: &domain.RawResult{
		Hits:  []domain.Hit{{Key: "k1", Score: 2}, {Key: "k2", Score: 1}},
		Total: 9,
	}}
	h := newTestHandler(engine, nil, nil)

	rec, err := doJSON(h.SearchKeys, http.MethodPost, "/v1/search/keys", `{"query":"x"}`)
	if err != nil {
		t.Fatalf("SearchKeys() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Keys  []string `json:"keys"`
		Total int64    `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Keys) != 2 || resp.Keys[0] != "k1" || resp.Keys[1] != "k2" {
		t.Errorf("keys = %v, want [k1 k2]", resp.Keys)
	}
	if resp.Total != 9 {
		t.Errorf("total = %d, want 9", resp.Total)
	}
}

func TestHandler_UpsertRecords(t *testing.T) {
	engine := &fakeEngine{}
	h := newTestHandler(engine, nil, nil)

	body := `{"records":[{"id":"1","title":"One"},{"id":"2","title":"Two"}]}`
	rec, err := doJSON(h.UpsertRecords, http.MethodPost, "/v1/records", body)
	if err != nil {
		t.Fatalf("UpsertRecords() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if engine.upserted != 2 {
		t.Errorf("upserted = %d, want 2", engine.upserted)
	}

	rec, err = doJSON(h.UpsertRecords, http.MethodPost, "/v1/records", `{"records":[]}`)
	if err != nil {
		t.Fatalf("UpsertRecords() error = %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty records status = %d, want 400", rec.Code)
	}
}

func TestHandler_DeleteRecords(t *testing.T) {
	engine := &fakeEngine{}
	h := newTestHandler(engine, nil, nil)

	rec, err := doJSON(h.DeleteRecords, http.MethodDelete, "/v1/records", `{"keys":["1","2"]}`)
	if err != nil {
		t.Fatalf("DeleteRecords() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(engine.deletedKeys) != 2 {
		t.Errorf("deleted = %v, want [1 2]", engine.deletedKeys)
	}

	rec, err = doJSON(h.DeleteRecords, http.MethodDelete, "/v1/records", `{"keys":[]}`)
	if err != nil {
		t.Fatalf("DeleteRecords() error = %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty keys status = %d, want 400", rec.Code)
	}
}

func TestHandler_EnsureIndex(t *testing.T) {
	engine := &fakeEngine{exists: false}
	h := newTestHandler(engine, nil, nil)

	body := `{"index":"articles","doc_type":"article","mapping":{"title":{"type":"text"}}}`
	rec, err := doJSON(h.EnsureIndex, http.MethodPost, "/v1/indexes", body)
	if err != nil {
		t.Fatalf("EnsureIndex() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	want := []string{"exists:articles", "create:articles", "mapping:articles"}
	if len(engine.adminCalls) != len(want) {
		t.Fatalf("admin calls = %v, want %v", engine.adminCalls, want)
	}
	for i := range want {
		if engine.adminCalls[i] != want[i] {
			t.Errorf("admin call %d = %q, want %q", i, engine.adminCalls[i], want[i])
		}
	}
}

func TestHandler_EnsureIndex_AdminError(t *testing.T) {
	engine := &fakeEngine{err: &domain.IndexAdminError{Op: "CreateIndex", Err: "backend refused"}}
	h := newTestHandler(engine, nil, nil)

	rec, err := doJSON(h.EnsureIndex, http.MethodPost, "/v1/indexes", `{"index":"articles"}`)
	if err != nil {
		t.Fatalf("EnsureIndex() error = %v", err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}

func TestHandler_DeleteIndex(t *testing.T) {
	engine := &fakeEngine{}
	h := newTestHandler(engine, nil, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/v1/indexes/articles", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("name")
	c.SetParamValues("articles")

	if err := h.DeleteIndex(c); err != nil {
		t.Fatalf("DeleteIndex() error = %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if len(engine.adminCalls) != 1 || engine.adminCalls[0] != "delete:articles" {
		t.Errorf("admin calls = %v, want [delete:articles]", engine.adminCalls)
	}
}

func TestHandler_UpdateMapping(t *testing.T) {
	engine := &fakeEngine{}
	h := newTestHandler(engine, nil, nil)

	rec, err := doJSON(h.UpdateMapping, http.MethodPut, "/v1/indexes/mapping",
		`{"mapping":{"title":{"type":"text"}}}`)
	if err != nil {
		t.Fatalf("UpdateMapping() error = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	// Falls back to the configured descriptor when no index is named.
	if len(engine.adminCalls) != 1 || engine.adminCalls[0] != "mapping:records" {
		t.Errorf("admin calls = %v, want [mapping:records]", engine.adminCalls)
	}

	rec, err = doJSON(h.UpdateMapping, http.MethodPut, "/v1/indexes/mapping", `{}`)
	if err != nil {
		t.Fatalf("UpdateMapping() error = %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing mapping status = %d, want 400", rec.Code)
	}
}

func TestHandler_Health(t *testing.T) {
	tests := []struct {
		name       string
		pinger     Pinger
		wantStatus int
	}{
		{name: "backend reachable", pinger: &fakePinger{}, wantStatus: http.StatusOK},
		{
			name:       "backend unreachable",
			pinger:     &fakePinger{err: context.DeadlineExceeded},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&fakeEngine{}, nil, tt.pinger)
			rec, err := doJSON(h.Health, http.MethodGet, "/v1/health", "")
			if err != nil {
				t.Fatalf("Health() error = %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
