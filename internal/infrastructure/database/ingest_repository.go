package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidleathers/phonenumbers-na/internal/domain/errors"
	"github.com/davidleathers/phonenumbers-na/internal/domain/values"
)

// MaxRecentLimit caps a single Recent query.
const MaxRecentLimit = 1000

var phoneNumberColumns = []string{
	"batch_id", "dialed_number", "npa", "nxx", "xxxx",
	"number_type", "ingested_at", "ingested_from",
}

// IngestRepository stores numbers pulled out of free text.
type IngestRepository struct {
	db *pgxpool.Pool
}

// NewIngestRepository creates a PostgreSQL ingestion repository.
func NewIngestRepository(db *pgxpool.Pool) *IngestRepository {
	return &IngestRepository{db: db}
}

// Save bulk-inserts numbers with COPY and returns how many rows were written.
func (r *IngestRepository) Save(ctx context.Context, numbers []values.IngestedNumber) (int, error) {
	if len(numbers) == 0 {
		return 0, nil
	}

	n, err := r.db.CopyFrom(
		ctx,
		pgx.Identifier{"phone_numbers"},
		phoneNumberColumns,
		pgx.CopyFromSlice(len(numbers), func(i int) ([]interface{}, error) {
			num := numbers[i]
			return []interface{}{
				num.BatchID,
				num.DialedNumber,
				num.NPA,
				num.NXX,
				num.XXXX,
				num.Type.String(),
				num.DateIngested,
				num.IngestedFrom,
			}, nil
		}),
	)
	if err != nil {
		return 0, errors.NewInternalError("failed to save ingested numbers").WithCause(err)
	}
	return int(n), nil
}

// Recent returns the newest numbers, optionally restricted to one source.
// limit is clamped to [1, MaxRecentLimit].
func (r *IngestRepository) Recent(ctx context.Context, source string, limit int) ([]values.IngestedNumber, error) {
	limit = clampLimit(limit)

	query := `
		SELECT batch_id, dialed_number, npa, nxx, xxxx, number_type, ingested_at, ingested_from
		FROM phone_numbers
		WHERE ($1 = '' OR ingested_from = $1)
		ORDER BY ingested_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, source, limit)
	if err != nil {
		return nil, errors.NewInternalError("failed to query ingested numbers").WithCause(err)
	}
	defer rows.Close()

	out := make([]values.IngestedNumber, 0, limit)
	for rows.Next() {
		var n values.IngestedNumber
		if err := rows.Scan(
			&n.BatchID,
			&n.DialedNumber,
			&n.NPA,
			&n.NXX,
			&n.XXXX,
			&n.Type,
			&n.DateIngested,
			&n.IngestedFrom,
		); err != nil {
			return nil, errors.NewInternalError("failed to scan ingested number").WithCause(err)
		}
		n.DateIngested = n.DateIngested.UTC()
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError("failed to iterate ingested numbers").WithCause(err)
	}
	return out, nil
}

// CountByBatch returns how many rows a batch produced.
func (r *IngestRepository) CountByBatch(ctx context.Context, batchID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM phone_numbers WHERE batch_id = $1`, batchID).Scan(&n)
	if err != nil {
		return 0, errors.NewInternalError("failed to count batch").WithCause(err)
	}
	return n, nil
}

func clampLimit(limit int) int {
	switch {
	case limit < 1:
		return 1
	case limit > MaxRecentLimit:
		return MaxRecentLimit
	default:
		return limit
	}
}
