package gateway

import (
	"context"

	"search-adapter/domain"
)

// RecordDriver is the database-level record access the gateway wraps.
type RecordDriver interface {
	GetRecordsByKeys(ctx context.Context, keys []string) ([]*domain.Record, error)
}

// RecordStoreGateway implements port.RecordStore over the database driver.
type RecordStoreGateway struct {
	driver RecordDriver
}

func NewRecordStoreGateway(driver RecordDriver) *RecordStoreGateway {
	return &RecordStoreGateway{driver: driver}
}

func (g *RecordStoreGateway) GetByKeys(ctx context.Context, keys []string) ([]*domain.Record, error) {
	if len(keys) == 0 {
		return []*domain.Record{}, nil
	}

	records, err := g.driver.GetRecordsByKeys(ctx, keys)
	if err != nil {
		return nil, &domain.RepositoryError{
			Op:  "GetByKeys",
			Err: err.Error(),
		}
	}
	return records, nil
}
