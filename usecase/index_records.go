package usecase

import (
	"context"

	"search-adapter/domain"
	"search-adapter/port"
)

// IndexRecordsUsecase pushes record mutations into the search index in
// bulk batches.
type IndexRecordsUsecase struct {
	store  port.RecordStore
	engine port.SearchEngine
}

func NewIndexRecordsUsecase(store port.RecordStore, engine port.SearchEngine) *IndexRecordsUsecase {
	return &IndexRecordsUsecase{
		store:  store,
		engine: engine,
	}
}

// Upsert writes the given records to the index in one bulk call.
func (u *IndexRecordsUsecase) Upsert(ctx context.Context, records []*domain.Record) error {
	if len(records) == 0 {
		return nil
	}

	searchables := make([]domain.Searchable, len(records))
	for i, r := range records {
		searchables[i] = r
	}
	return u.engine.Upsert(ctx, searchables)
}

// UpsertKeys loads the records for the given keys from the store and
// indexes whatever still exists there. Keys that no longer resolve to a
// stored record are skipped. Returns the number of records indexed.
func (u *IndexRecordsUsecase) UpsertKeys(ctx context.Context, keys []string) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	records, err := u.store.GetByKeys(ctx, keys)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	if err := u.Upsert(ctx, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// DeleteKeys removes the documents for the given keys from the index.
func (u *IndexRecordsUsecase) DeleteKeys(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return u.engine.Delete(ctx, keys)
}
