package usecase

import (
	"context"

	"search-adapter/domain"
	"search-adapter/port"
)

// ManageIndexUsecase exposes index administration: existence check,
// creation, deletion and mapping updates. Each operation is one
// synchronous backend call; failures surface unchanged.
type ManageIndexUsecase struct {
	engine port.SearchEngine
}

func NewManageIndexUsecase(engine port.SearchEngine) *ManageIndexUsecase {
	return &ManageIndexUsecase{engine: engine}
}

func (u *ManageIndexUsecase) Exists(ctx context.Context, d domain.IndexDescriptor) (bool, error) {
	return u.engine.IndexExists(ctx, d)
}

func (u *ManageIndexUsecase) Create(ctx context.Context, d domain.IndexDescriptor) error {
	return u.engine.CreateIndex(ctx, d)
}

func (u *ManageIndexUsecase) Delete(ctx context.Context, d domain.IndexDescriptor) error {
	return u.engine.DeleteIndex(ctx, d)
}

func (u *ManageIndexUsecase) UpdateMapping(ctx context.Context, d domain.IndexDescriptor) error {
	return u.engine.PutMapping(ctx, d)
}

// Ensure creates the index if it is missing and pushes the descriptor's
// mapping when one is declared.
func (u *ManageIndexUsecase) Ensure(ctx context.Context, d domain.IndexDescriptor) error {
	exists, err := u.engine.IndexExists(ctx, d)
	if err != nil {
		return err
	}
	if !exists {
		if err := u.engine.CreateIndex(ctx, d); err != nil {
			return err
		}
	}
	if len(d.Mapping) > 0 {
		return u.engine.PutMapping(ctx, d)
	}
	return nil
}
