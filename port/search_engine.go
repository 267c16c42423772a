package port

import (
	"context"

	"search-adapter/domain"
)

// SearchEngine is the search-backend facade used by the usecases. The
// implementation owns query translation, index resolution, pagination
// arithmetic and the relevance floor; it never retries.
type SearchEngine interface {
	// Search runs a single-page search. Size is bounded by the request's
	// limit when present, otherwise left to the backend default.
	Search(ctx context.Context, req domain.SearchRequest) (*domain.RawResult, error)
	// SearchPage runs a paginated search with 1-based page numbering.
	SearchPage(ctx context.Context, req domain.SearchRequest, page, perPage int) (*domain.RawResult, error)

	// Upsert writes records to the index in one bulk call, in input order.
	Upsert(ctx context.Context, records []domain.Searchable) error
	// Delete removes documents by key in one bulk call, in input order.
	Delete(ctx context.Context, keys []string) error

	IndexExists(ctx context.Context, d domain.IndexDescriptor) (bool, error)
	CreateIndex(ctx context.Context, d domain.IndexDescriptor) error
	DeleteIndex(ctx context.Context, d domain.IndexDescriptor) error
	PutMapping(ctx context.Context, d domain.IndexDescriptor) error
}
