package usecase

import (
	"context"

	"search-adapter/domain"
	"search-adapter/port"
)

// SearchRecordsPaginatedUsecase runs a paginated search, reconciles the
// page's hits, and derives the page count from the total-match count.
type SearchRecordsPaginatedUsecase struct {
	engine port.SearchEngine
	mapper *ResultMapper
}

func NewSearchRecordsPaginatedUsecase(engine port.SearchEngine, mapper *ResultMapper) *SearchRecordsPaginatedUsecase {
	return &SearchRecordsPaginatedUsecase{
		engine: engine,
		mapper: mapper,
	}
}

func (u *SearchRecordsPaginatedUsecase) Execute(ctx context.Context, req domain.SearchRequest, page, perPage int) (*domain.Result, error) {
	raw, err := u.engine.SearchPage(ctx, req, page, perPage)
	if err != nil {
		return nil, err
	}

	records, err := u.mapper.Reconcile(ctx, raw)
	if err != nil {
		return nil, err
	}

	return &domain.Result{
		Records:   records,
		Total:     raw.Total,
		PerPage:   perPage,
		PageCount: pageCount(raw.Total, perPage),
	}, nil
}

// pageCount is integer ceiling division: a single record with perPage 10
// still occupies one page, and a partial final page counts as a full page.
func pageCount(total int64, perPage int) int {
	return int((total + int64(perPage) - 1) / int64(perPage))
}
