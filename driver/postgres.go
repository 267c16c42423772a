package driver

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"search-adapter/domain"
)

// PostgresDriver reads stored records from the database.
type PostgresDriver struct {
	pool *pgxpool.Pool
}

// NewPostgresPool opens a connection pool and verifies connectivity.
func NewPostgresPool(ctx context.Context, connString string, timeout time.Duration) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func NewPostgresDriver(pool *pgxpool.Pool) *PostgresDriver {
	return &PostgresDriver{pool: pool}
}

// GetRecordsByKeys fetches all records for the given keys in one query.
// Keys without a stored record are simply absent from the result.
func (d *PostgresDriver) GetRecordsByKeys(ctx context.Context, keys []string) ([]*domain.Record, error) {
	query := `
		SELECT id, title, content, COALESCE(tags, '{}'), updated_at
		FROM records
		WHERE id = ANY($1)
	`

	rows, err := d.pool.Query(ctx, query, keys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.Record
	for rows.Next() {
		var record domain.Record
		if err := rows.Scan(&record.ID, &record.Title, &record.Content, &record.Tags, &record.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
