package usecase

import (
	"context"

	"search-adapter/domain"
	"search-adapter/port"
)

// ResultMapper reconciles raw search hits with the record store. Hit keys
// are fetched in one batched call, never one fetch per hit.
type ResultMapper struct {
	store port.RecordStore
}

func NewResultMapper(store port.RecordStore) *ResultMapper {
	return &ResultMapper{store: store}
}

// Reconcile resolves hit keys back to stored records, preserving hit order.
// Hits whose key no longer exists in storage (deleted since indexing) are
// dropped without shifting the relative order of the survivors. A zero
// total short-circuits to an empty result without touching the store.
func (m *ResultMapper) Reconcile(ctx context.Context, raw *domain.RawResult) ([]*domain.Record, error) {
	if raw.Total == 0 || len(raw.Hits) == 0 {
		return []*domain.Record{}, nil
	}

	records, err := m.store.GetByKeys(ctx, raw.Keys())
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]*domain.Record, len(records))
	for _, r := range records {
		byKey[r.ID] = r
	}

	ordered := make([]*domain.Record, 0, len(raw.Hits))
	for _, hit := range raw.Hits {
		if record, ok := byKey[hit.Key]; ok {
			ordered = append(ordered, record)
		}
	}
	return ordered, nil
}
