package postgres

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/sporating/sporating/internal/domain/importrun"
	qb "github.com/sporating/sporating/internal/platform/querybuilder"
)

type importRunRow struct {
	ID         int64     `db:"id"`
	RunID      string    `db:"run_id"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
	Total      int       `db:"total"`
	Saved      int       `db:"saved"`
	Skipped    int       `db:"skipped"`
	Errors     int       `db:"errors"`
	Breakdown  []byte    `db:"breakdown"`
}

type ImportRunRepository struct {
	db *sqlx.DB
}

func NewImportRunRepository(db *sqlx.DB) *ImportRunRepository {
	return &ImportRunRepository{db: db}
}

func (r *ImportRunRepository) Insert(ctx context.Context, run importrun.Run) (importrun.Run, error) {
	breakdown, err := sonic.Marshal(run.Breakdown)
	if err != nil {
		return importrun.Run{}, crerr.Wrap(err, "encode run breakdown")
	}

	query, args, err := qb.InsertInto("import_runs").
		Columns("run_id", "started_at", "finished_at", "total", "saved", "skipped", "errors", "breakdown").
		Values(run.RunID, run.StartedAt, run.FinishedAt, run.Total, run.Saved, run.Skipped, run.Errors, breakdown).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		return importrun.Run{}, err
	}
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&run.ID); err != nil {
		return importrun.Run{}, crerr.Wrap(err, "insert import run")
	}
	return run, nil
}

func (r *ImportRunRepository) GetByRunID(ctx context.Context, runID string) (*importrun.Run, error) {
	query, args, err := qb.Select(
		"id", "run_id", "started_at", "finished_at",
		"total", "saved", "skipped", "errors", "breakdown",
	).
		From("import_runs").
		Where(qb.Eq("run_id", runID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var row importRunRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, crerr.Wrap(err, "query import run")
	}

	var breakdown []importrun.SportResult
	if len(row.Breakdown) > 0 {
		if err := sonic.Unmarshal(row.Breakdown, &breakdown); err != nil {
			return nil, crerr.Wrap(err, "decode run breakdown")
		}
	}

	return &importrun.Run{
		ID:         row.ID,
		RunID:      row.RunID,
		StartedAt:  row.StartedAt,
		FinishedAt: row.FinishedAt,
		Total:      row.Total,
		Saved:      row.Saved,
		Skipped:    row.Skipped,
		Errors:     row.Errors,
		Breakdown:  breakdown,
	}, nil
}
