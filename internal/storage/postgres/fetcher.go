package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/storefront/internal/records"
)

var _ records.Fetcher = (*Fetcher)(nil)

// Fetcher implements records.Fetcher over the record tables.
//
// Queries that cannot be rendered (unknown entity, field or operator) are
// answered with Success false, like the hosted data service does. Database
// failures are returned as errors.
type Fetcher struct {
	pool *pgxpool.Pool
}

// NewFetcher returns a Fetcher that uses the given pool.
func NewFetcher(pool *pgxpool.Pool) *Fetcher {
	return &Fetcher{pool: pool}
}

// FetchRecords implements records.Fetcher.
func (f *Fetcher) FetchRecords(ctx context.Context, entity string, q records.Query) (*records.ListResponse, error) {
	sql, args, err := buildSelect(entity, q)
	if err != nil {
		return &records.ListResponse{Message: err.Error()}, nil
	}

	rows, err := f.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", entity)
	}
	data, err := pgx.CollectRows(rows, scanRecord)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", entity)
	}
	return &records.ListResponse{Success: true, Data: data}, nil
}

// GetRecordByID implements records.Fetcher.
func (f *Fetcher) GetRecordByID(ctx context.Context, entity string, id int64, q records.Query) (*records.RecordResponse, error) {
	q.Where = []records.Condition{records.Where(records.FieldID, records.EqualTo, id)}
	q.Groups = nil
	q.OrderBy = nil
	q.Paging = records.Paging{Limit: 1}

	sql, args, err := buildSelect(entity, q)
	if err != nil {
		return &records.RecordResponse{Message: err.Error()}, nil
	}

	rows, err := f.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "get %s %d", entity, id)
	}
	rec, err := pgx.CollectExactlyOneRow(rows, scanRecord)
	if errors.Is(err, pgx.ErrNoRows) {
		return &records.RecordResponse{Success: true}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get %s %d", entity, id)
	}
	return &records.RecordResponse{Success: true, Data: rec}, nil
}

func scanRecord(row pgx.CollectableRow) (jx.Raw, error) {
	var data []byte
	if err := row.Scan(&data); err != nil {
		return nil, err
	}
	return jx.Raw(data), nil
}
