package database

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/davidleathers/phonenumbers-na/internal/domain/areacode"
	"github.com/davidleathers/phonenumbers-na/internal/domain/crosscheck"
	"github.com/davidleathers/phonenumbers-na/internal/domain/errors"
)

// CrossCheckRepository keeps the history of cross-check runs.
type CrossCheckRepository struct {
	db *pgxpool.Pool
}

// NewCrossCheckRepository creates a PostgreSQL cross-check run store.
func NewCrossCheckRepository(db *pgxpool.Pool) *CrossCheckRepository {
	return &CrossCheckRepository{db: db}
}

// SaveResult writes a run and its discrepancies in one transaction.
func (r *CrossCheckRepository) SaveResult(ctx context.Context, result *crosscheck.Result) error {
	sourcesJSON, err := json.Marshal(result.Sources)
	if err != nil {
		return errors.NewInternalError("failed to marshal sources").WithCause(err)
	}

	err = pgx.BeginTxFunc(ctx, r.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO crosscheck_runs (
				id, started_at, finished_at, discrepancy_count, source_error_count, sources
			) VALUES ($1, $2, $3, $4, $5, $6)
		`,
			result.RunID,
			result.StartedAt,
			result.FinishedAt,
			len(result.Discrepancies),
			result.SourceErrors(),
			sourcesJSON,
		)
		if err != nil {
			return err
		}

		if len(result.Discrepancies) == 0 {
			return nil
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"crosscheck_discrepancies"},
			[]string{"run_id", "source", "set_name", "code", "kind", "metadata"},
			pgx.CopyFromSlice(len(result.Discrepancies), func(i int) ([]interface{}, error) {
				d := result.Discrepancies[i]
				var metadata []byte
				if len(d.Metadata) > 0 {
					var err error
					if metadata, err = json.Marshal(d.Metadata); err != nil {
						return nil, err
					}
				}
				return []interface{}{result.RunID, d.Source, d.Set.String(), d.Code, string(d.Kind), metadata}, nil
			}),
		)
		return err
	})
	if err != nil {
		return errors.NewInternalError("failed to save cross-check result").WithCause(err)
	}
	return nil
}

// LatestResult loads the most recent run.
func (r *CrossCheckRepository) LatestResult(ctx context.Context) (*crosscheck.Result, error) {
	var (
		result      crosscheck.Result
		sourcesJSON []byte
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, started_at, finished_at, sources
		FROM crosscheck_runs
		ORDER BY started_at DESC
		LIMIT 1
	`).Scan(&result.RunID, &result.StartedAt, &result.FinishedAt, &sourcesJSON)
	if err == pgx.ErrNoRows {
		return nil, errors.NewNotFoundError("cross-check run")
	}
	if err != nil {
		return nil, errors.NewInternalError("failed to load cross-check run").WithCause(err)
	}
	if err := json.Unmarshal(sourcesJSON, &result.Sources); err != nil {
		return nil, errors.NewInternalError("failed to decode cross-check sources").WithCause(err)
	}
	result.StartedAt = result.StartedAt.UTC()
	result.FinishedAt = result.FinishedAt.UTC()

	rows, err := r.db.Query(ctx, `
		SELECT source, set_name, code, kind, metadata
		FROM crosscheck_discrepancies
		WHERE run_id = $1
		ORDER BY id
	`, result.RunID)
	if err != nil {
		return nil, errors.NewInternalError("failed to query discrepancies").WithCause(err)
	}
	defer rows.Close()

	result.Discrepancies = []crosscheck.Discrepancy{}
	for rows.Next() {
		var (
			d        crosscheck.Discrepancy
			setName  string
			kind     string
			metadata []byte
		)
		if err := rows.Scan(&d.Source, &setName, &d.Code, &kind, &metadata); err != nil {
			return nil, errors.NewInternalError("failed to scan discrepancy").WithCause(err)
		}
		if d.Set, err = areacode.ParseSet(setName); err != nil {
			return nil, errors.NewInternalError("stored discrepancy has unknown set").WithCause(err)
		}
		d.Kind = crosscheck.DiscrepancyKind(kind)
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &d.Metadata); err != nil {
				return nil, errors.NewInternalError("failed to decode discrepancy metadata").WithCause(err)
			}
		}
		result.Discrepancies = append(result.Discrepancies, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError("failed to iterate discrepancies").WithCause(err)
	}
	return &result, nil
}
