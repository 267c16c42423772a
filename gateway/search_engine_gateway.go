package gateway

import (
	"context"
	"encoding/json"

	"search-adapter/bulk"
	"search-adapter/domain"
	"search-adapter/driver"
	"search-adapter/query"
)

// SearchDriver is the wire-level transport the gateway drives. The real
// implementation is driver.ElasticsearchDriver.
type SearchDriver interface {
	Search(ctx context.Context, index string, body []byte) (*driver.SearchResponse, error)
	Bulk(ctx context.Context, payload []byte) error
	IndexExists(ctx context.Context, index string) (bool, error)
	CreateIndex(ctx context.Context, index string) error
	DeleteIndex(ctx context.Context, index string) error
	PutMapping(ctx context.Context, index, docType string, mapping map[string]any) error
}

// SearchEngineGateway implements port.SearchEngine on top of the wire
// driver. It translates requests into the native DSL, resolves target
// indexes, and owns pagination arithmetic and the relevance floor. Its
// configuration is set at construction and never mutated, so one gateway
// can serve concurrent callers without coordination.
type SearchEngineGateway struct {
	driver     SearchDriver
	resolver   domain.IndexResolver
	descriptor domain.IndexDescriptor
	minScore   float64
}

func NewSearchEngineGateway(d SearchDriver, resolver domain.IndexResolver, descriptor domain.IndexDescriptor, minScore float64) *SearchEngineGateway {
	return &SearchEngineGateway{
		driver:     d,
		resolver:   resolver,
		descriptor: descriptor,
		minScore:   minScore,
	}
}

// Search runs a single-page search. The relevance floor is always applied;
// size follows the request's limit when present.
func (g *SearchEngineGateway) Search(ctx context.Context, req domain.SearchRequest) (*domain.RawResult, error) {
	q, err := query.Translate(req)
	if err != nil {
		return nil, err
	}
	g.applyFloor(q)
	return g.execute(ctx, "Search", q)
}

// SearchPage runs a paginated search with 1-based page numbering:
// from = (page-1)*perPage, size = perPage.
func (g *SearchEngineGateway) SearchPage(ctx context.Context, req domain.SearchRequest, page, perPage int) (*domain.RawResult, error) {
	if perPage <= 0 {
		return nil, &domain.InvalidRequestError{Reason: "per-page size must be positive"}
	}
	if page < 1 {
		return nil, &domain.InvalidRequestError{Reason: "page numbering is 1-based"}
	}

	q, err := query.Translate(req)
	if err != nil {
		return nil, err
	}
	from := (page - 1) * perPage
	size := perPage
	q.From = &from
	q.Size = &size
	g.applyFloor(q)
	return g.execute(ctx, "SearchPage", q)
}

func (g *SearchEngineGateway) applyFloor(q *query.NativeQuery) {
	floor := g.minScore
	q.MinScore = &floor
}

func (g *SearchEngineGateway) execute(ctx context.Context, op string, q *query.NativeQuery) (*domain.RawResult, error) {
	body, err := json.Marshal(q)
	if err != nil {
		return nil, &domain.InvalidRequestError{Reason: "unencodable query: " + err.Error()}
	}

	index := g.resolver.Resolve(g.descriptor)
	resp, err := g.driver.Search(ctx, index, body)
	if err != nil {
		return nil, &domain.BackendUnavailableError{Op: op, Err: err.Error()}
	}

	hits := make([]domain.Hit, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		hits = append(hits, domain.Hit{Key: h.ID, Score: h.Score})
	}
	return &domain.RawResult{Hits: hits, Total: resp.Hits.Total.Value}, nil
}

// Upsert writes the records to the index in one bulk call, preserving
// input order.
func (g *SearchEngineGateway) Upsert(ctx context.Context, records []domain.Searchable) error {
	if len(records) == 0 {
		return nil
	}

	ops := make([]bulk.Operation, 0, len(records))
	for _, r := range records {
		index := g.resolver.Resolve(domain.IndexDescriptor{Name: r.SearchIndex(), DocType: r.SearchDocType()})
		ops = append(ops, bulk.Upsert(r.SearchKey(), index, r.SearchDocType(), r.SearchableDoc()))
	}
	return g.flush(ctx, "Upsert", ops)
}

// Delete removes documents by key in one bulk call, preserving input order.
func (g *SearchEngineGateway) Delete(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	index := g.resolver.Resolve(g.descriptor)
	ops := make([]bulk.Operation, 0, len(keys))
	for _, key := range keys {
		ops = append(ops, bulk.Delete(key, index, g.descriptor.DocType))
	}
	return g.flush(ctx, "Delete", ops)
}

func (g *SearchEngineGateway) flush(ctx context.Context, op string, ops []bulk.Operation) error {
	batch, err := bulk.Build(ops)
	if err != nil {
		return &domain.InvalidRequestError{Reason: err.Error()}
	}
	if err := g.driver.Bulk(ctx, batch.NDJSON()); err != nil {
		return &domain.BackendUnavailableError{Op: op, Err: err.Error()}
	}
	return nil
}

func (g *SearchEngineGateway) IndexExists(ctx context.Context, d domain.IndexDescriptor) (bool, error) {
	exists, err := g.driver.IndexExists(ctx, g.resolver.Resolve(d))
	if err != nil {
		return false, &domain.IndexAdminError{Op: "IndexExists", Err: err.Error()}
	}
	return exists, nil
}

func (g *SearchEngineGateway) CreateIndex(ctx context.Context, d domain.IndexDescriptor) error {
	if err := g.driver.CreateIndex(ctx, g.resolver.Resolve(d)); err != nil {
		return &domain.IndexAdminError{Op: "CreateIndex", Err: err.Error()}
	}
	return nil
}

func (g *SearchEngineGateway) DeleteIndex(ctx context.Context, d domain.IndexDescriptor) error {
	if err := g.driver.DeleteIndex(ctx, g.resolver.Resolve(d)); err != nil {
		return &domain.IndexAdminError{Op: "DeleteIndex", Err: err.Error()}
	}
	return nil
}

func (g *SearchEngineGateway) PutMapping(ctx context.Context, d domain.IndexDescriptor) error {
	if err := g.driver.PutMapping(ctx, g.resolver.Resolve(d), d.DocType, d.Mapping); err != nil {
		return &domain.IndexAdminError{Op: "PutMapping", Err: err.Error()}
	}
	return nil
}
