package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/sporating/sporating/internal/domain/coach"
	qb "github.com/sporating/sporating/internal/platform/querybuilder"
)

var coachColumns = []string{"id", "name", "team", "sport", "style", "created_at"}

type coachRow struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Team      string    `db:"team"`
	Sport     string    `db:"sport"`
	Style     string    `db:"style"`
	CreatedAt time.Time `db:"created_at"`
}

func (r coachRow) toDomain() coach.Coach {
	return coach.Coach{
		ID:        r.ID,
		Name:      r.Name,
		Team:      r.Team,
		Sport:     r.Sport,
		Style:     r.Style,
		CreatedAt: r.CreatedAt,
	}
}

type CoachRepository struct {
	db *sqlx.DB
}

func NewCoachRepository(db *sqlx.DB) *CoachRepository {
	return &CoachRepository{db: db}
}

func (r *CoachRepository) List(ctx context.Context, sport string) ([]coach.Coach, error) {
	builder := qb.Select(coachColumns...).From("coaches")
	if sport != "" {
		builder = builder.Where(qb.Eq("sport", sport))
	}

	query, args, err := builder.OrderBy("id ASC").ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []coachRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "query coaches")
	}
	coaches := make([]coach.Coach, 0, len(rows))
	for _, row := range rows {
		coaches = append(coaches, row.toDomain())
	}
	return coaches, nil
}

func (r *CoachRepository) FindByTuple(ctx context.Context, name, team, sport string) (*coach.Coach, error) {
	query, args, err := qb.Select(coachColumns...).
		From("coaches").
		Where(qb.Eq("name", name), qb.Eq("team", team), qb.Eq("sport", sport)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var row coachRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, crerr.Wrap(err, "query coach")
	}
	c := row.toDomain()
	return &c, nil
}

func (r *CoachRepository) Insert(ctx context.Context, c coach.Coach) (coach.Coach, error) {
	query, args, err := qb.InsertInto("coaches").
		Columns("name", "team", "sport", "style").
		Values(c.Name, c.Team, c.Sport, c.Style).
		Suffix("RETURNING id, created_at").
		ToSQL()
	if err != nil {
		return coach.Coach{}, err
	}
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&c.ID, &c.CreatedAt); err != nil {
		return coach.Coach{}, crerr.Wrap(err, "insert coach")
	}
	return c, nil
}

func (r *CoachRepository) GetByID(ctx context.Context, id int64) (*coach.Coach, error) {
	query, args, err := qb.Select(coachColumns...).
		From("coaches").
		Where(qb.Eq("id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var row coachRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, crerr.Wrap(err, "query coach")
	}
	c := row.toDomain()
	return &c, nil
}
