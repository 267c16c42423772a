package usecase

import (
	"context"

	"search-adapter/domain"
	"search-adapter/port"
)

// SearchKeysUsecase returns identity-only search results: the ordered hit
// keys and the total-match count, with no record-store round trip.
type SearchKeysUsecase struct {
	engine port.SearchEngine
}

func NewSearchKeysUsecase(engine port.SearchEngine) *SearchKeysUsecase {
	return &SearchKeysUsecase{engine: engine}
}

func (u *SearchKeysUsecase) Execute(ctx context.Context, req domain.SearchRequest) ([]string, int64, error) {
	raw, err := u.engine.Search(ctx, req)
	if err != nil {
		return nil, 0, err
	}
	return raw.Keys(), raw.Total, nil
}
