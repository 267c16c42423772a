package usecase

import (
	"context"

	"search-adapter/domain"
	"search-adapter/port"
)

// SearchRecordsUsecase runs a single-page search and reconciles the hits
// with stored records.
type SearchRecordsUsecase struct {
	engine port.SearchEngine
	mapper *ResultMapper
}

func NewSearchRecordsUsecase(engine port.SearchEngine, mapper *ResultMapper) *SearchRecordsUsecase {
	return &SearchRecordsUsecase{
		engine: engine,
		mapper: mapper,
	}
}

func (u *SearchRecordsUsecase) Execute(ctx context.Context, req domain.SearchRequest) (*domain.Result, error) {
	raw, err := u.engine.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	records, err := u.mapper.Reconcile(ctx, raw)
	if err != nil {
		return nil, err
	}

	return &domain.Result{
		Records: records,
		Total:   raw.Total,
	}, nil
}
