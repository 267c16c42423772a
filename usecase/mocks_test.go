package usecase

import (
	"context"

	"search-adapter/domain"
)

type mockSearchEngine struct {
	raw *domain.RawResult
	err error

	searchCalls  int
	lastPage     int
	lastPerPage  int
	upserted     []domain.Searchable
	deletedKeys  []string
	existsResult bool
	adminCalls   []string
}

func (m *mockSearchEngine) Search(context.Context, domain.SearchRequest) (*domain.RawResult, error) {
	m.searchCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.raw, nil
}

func (m *mockSearchEngine) SearchPage(_ context.Context, _ domain.SearchRequest, page, perPage int) (*domain.RawResult, error) {
	m.searchCalls++
	m.lastPage = page
	m.lastPerPage = perPage
	if perPage <= 0 {
		return nil, &domain.InvalidRequestError{Reason: "per-page size must be positive"}
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.raw, nil
}

func (m *mockSearchEngine) Upsert(_ context.Context, records []domain.Searchable) error {
	m.upserted = append(m.upserted, records...)
	return m.err
}

func (m *mockSearchEngine) Delete(_ context.Context, keys []string) error {
	m.deletedKeys = append(m.deletedKeys, keys...)
	return m.err
}

func (m *mockSearchEngine) IndexExists(_ context.Context, d domain.IndexDescriptor) (bool, error) {
	m.adminCalls = append(m.adminCalls, "exists:"+d.Name)
	return m.existsResult, m.err
}

func (m *mockSearchEngine) CreateIndex(_ context.Context, d domain.IndexDescriptor) error {
	m.adminCalls = append(m.adminCalls, "create:"+d.Name)
	return m.err
}

func (m *mockSearchEngine) DeleteIndex(_ context.Context, d domain.IndexDescriptor) error {
	m.adminCalls = append(m.adminCalls, "delete:"+d.Name)
	return m.err
}

func (m *mockSearchEngine) PutMapping(_ context.Context, d domain.IndexDescriptor) error {
	m.adminCalls = append(m.adminCalls, "mapping:"+d.Name)
	return m.err
}

type mockRecordStore struct {
	records map[string]*domain.Record
	err     error

	fetchCalls int
	lastKeys   []string
}

func (m *mockRecordStore) GetByKeys(_ context.Context, keys []string) ([]*domain.Record, error) {
	m.fetchCalls++
	m.lastKeys = keys
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Record
	for _, key := range keys {
		if r, ok := m.records[key]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}
