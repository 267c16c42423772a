package port

import (
	"context"

	"search-adapter/domain"
)

// RecordStore is the persistence collaborator that resolves search hits
// back to authoritative stored records.
type RecordStore interface {
	// GetByKeys fetches all records for the given keys in a single batched
	// call. Keys with no stored record are simply absent from the result;
	// order of the returned slice is unspecified.
	GetByKeys(ctx context.Context, keys []string) ([]*domain.Record, error)
}
