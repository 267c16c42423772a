package usecase

import (
	"context"
	"errors"
	"testing"

	"search-adapter/domain"
)

func TestSearchRecordsPaginatedUsecase_PageCount(t *testing.T) {
	tests := []struct {
		name          string
		total         int64
		perPage       int
		wantPageCount int
	}{
		{"exact fit", 100, 10, 10},
		{"partial final page", 95, 10, 10},
		{"single record", 1, 10, 1},
		{"no matches", 0, 10, 0},
		{"one over", 11, 10, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &mockSearchEngine{raw: &domain.RawResult{Total: tt.total}}
			store := &mockRecordStore{}
			u := NewSearchRecordsPaginatedUsecase(engine, NewResultMapper(store))

			result, err := u.Execute(context.Background(), domain.SearchRequest{Query: "stars"}, 1, tt.perPage)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if result.PageCount != tt.wantPageCount {
				t.Errorf("PageCount = %d, want %d", result.PageCount, tt.wantPageCount)
			}
			if result.PerPage != tt.perPage {
				t.Errorf("PerPage = %d, want %d", result.PerPage, tt.perPage)
			}
		})
	}
}

func TestSearchRecordsPaginatedUsecase_InvalidPerPage(t *testing.T) {
	engine := &mockSearchEngine{}
	store := &mockRecordStore{}
	u := NewSearchRecordsPaginatedUsecase(engine, NewResultMapper(store))

	_, err := u.Execute(context.Background(), domain.SearchRequest{Query: "stars"}, 1, 0)
	if err == nil {
		t.Fatal("Execute() error = nil, want InvalidRequestError")
	}
	var invalid *domain.InvalidRequestError
	if !errors.As(err, &invalid) {
		t.Errorf("error = %T, want *domain.InvalidRequestError", err)
	}
	if store.fetchCalls != 0 {
		t.Errorf("store called %d times despite invalid paging", store.fetchCalls)
	}
}

func TestSearchRecordsPaginatedUsecase_PassesPagingThrough(t *testing.T) {
	engine := &mockSearchEngine{raw: &domain.RawResult{Total: 0}}
	store := &mockRecordStore{}
	u := NewSearchRecordsPaginatedUsecase(engine, NewResultMapper(store))

	if _, err := u.Execute(context.Background(), domain.SearchRequest{Query: "stars"}, 3, 10); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if engine.lastPage != 3 || engine.lastPerPage != 10 {
		t.Errorf("paging = %d/%d, want 3/10", engine.lastPage, engine.lastPerPage)
	}
}
