package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/sporating/sporating/internal/domain/rating"
	qb "github.com/sporating/sporating/internal/platform/querybuilder"
)

var ratingColumns = []string{
	"id", "user_id", "player_id", "coach_id", "match_id",
	"value", "comment", "created_at",
}

type ratingRow struct {
	ID        int64     `db:"id"`
	UserID    string    `db:"user_id"`
	PlayerID  *int64    `db:"player_id"`
	CoachID   *int64    `db:"coach_id"`
	MatchID   *int64    `db:"match_id"`
	Value     int       `db:"value"`
	Comment   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
}

func (r ratingRow) toDomain() rating.Rating {
	return rating.Rating{
		ID:        r.ID,
		UserID:    r.UserID,
		PlayerID:  r.PlayerID,
		CoachID:   r.CoachID,
		MatchID:   r.MatchID,
		Value:     r.Value,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

type RatingRepository struct {
	db *sqlx.DB
}

func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

func (r *RatingRepository) Insert(ctx context.Context, rt rating.Rating) (rating.Rating, error) {
	query, args, err := qb.InsertInto("ratings").
		Columns("user_id", "player_id", "coach_id", "match_id", "value", "comment").
		Values(rt.UserID, rt.PlayerID, rt.CoachID, rt.MatchID, rt.Value, rt.Comment).
		Suffix("RETURNING id, created_at").
		ToSQL()
	if err != nil {
		return rating.Rating{}, err
	}
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&rt.ID, &rt.CreatedAt); err != nil {
		return rating.Rating{}, crerr.Wrap(err, "insert rating")
	}
	return rt, nil
}

func (r *RatingRepository) GetByID(ctx context.Context, id int64) (*rating.Rating, error) {
	query, args, err := qb.Select(ratingColumns...).
		From("ratings").
		Where(qb.Eq("id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var row ratingRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, crerr.Wrap(err, "query rating")
	}
	rt := row.toDomain()
	return &rt, nil
}

func (r *RatingRepository) Update(ctx context.Context, id int64, value int, comment string) error {
	query, args, err := qb.Update("ratings").
		Set("value", value).
		Set("comment", comment).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrap(err, "update rating")
	}
	return nil
}

func (r *RatingRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := qb.DeleteFrom("ratings").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrap(err, "delete rating")
	}
	return nil
}

func (r *RatingRepository) ListByPlayerIDs(ctx context.Context, playerIDs []int64, since time.Time) ([]rating.Rating, error) {
	return r.listByTarget(ctx, "player_id", playerIDs, since)
}

func (r *RatingRepository) ListByCoachIDs(ctx context.Context, coachIDs []int64, since time.Time) ([]rating.Rating, error) {
	return r.listByTarget(ctx, "coach_id", coachIDs, since)
}

func (r *RatingRepository) listByTarget(ctx context.Context, column string, ids []int64, since time.Time) ([]rating.Rating, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	values := make([]any, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}

	conditions := []qb.Condition{qb.In(column, values)}
	if !since.IsZero() {
		conditions = append(conditions, qb.Gte("created_at", since))
	}

	query, args, err := qb.Select(ratingColumns...).
		From("ratings").
		Where(conditions...).
		OrderBy("created_at DESC").
		ToSQL()
	if err != nil {
		return nil, err
	}
	return r.selectMany(ctx, query, args)
}

func (r *RatingRepository) ListByMatchID(ctx context.Context, matchID int64) ([]rating.Rating, error) {
	query, args, err := qb.Select(ratingColumns...).
		From("ratings").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("created_at DESC").
		ToSQL()
	if err != nil {
		return nil, err
	}
	return r.selectMany(ctx, query, args)
}

func (r *RatingRepository) selectMany(ctx context.Context, query string, args []any) ([]rating.Rating, error) {
	var rows []ratingRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "query ratings")
	}
	ratings := make([]rating.Rating, 0, len(rows))
	for _, row := range rows {
		ratings = append(ratings, row.toDomain())
	}
	return ratings, nil
}
