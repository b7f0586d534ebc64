package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/sporating/sporating/internal/domain/favorite"
	qb "github.com/sporating/sporating/internal/platform/querybuilder"
)

type favoriteRow struct {
	ID         int64     `db:"id"`
	UserID     string    `db:"user_id"`
	EntityKind string    `db:"entity_kind"`
	EntityID   int64     `db:"entity_id"`
	CreatedAt  time.Time `db:"created_at"`
}

type FavoriteRepository struct {
	db *sqlx.DB
}

func NewFavoriteRepository(db *sqlx.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) Upsert(ctx context.Context, f favorite.Favorite) error {
	query, args, err := qb.InsertInto("favorites").
		Columns("user_id", "entity_kind", "entity_id").
		Values(f.UserID, f.EntityKind, f.EntityID).
		Suffix("ON CONFLICT (user_id, entity_kind, entity_id) DO NOTHING").
		ToSQL()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrap(err, "upsert favorite")
	}
	return nil
}

func (r *FavoriteRepository) Delete(ctx context.Context, userID, entityKind string, entityID int64) error {
	query, args, err := qb.DeleteFrom("favorites").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("entity_kind", entityKind),
			qb.Eq("entity_id", entityID),
		).
		ToSQL()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrap(err, "delete favorite")
	}
	return nil
}

func (r *FavoriteRepository) ListByUser(ctx context.Context, userID string) ([]favorite.Favorite, error) {
	query, args, err := qb.Select("id", "user_id", "entity_kind", "entity_id", "created_at").
		From("favorites").
		Where(qb.Eq("user_id", userID)).
		OrderBy("id ASC").
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []favoriteRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "query favorites")
	}
	favorites := make([]favorite.Favorite, 0, len(rows))
	for _, row := range rows {
		favorites = append(favorites, favorite.Favorite{
			ID:         row.ID,
			UserID:     row.UserID,
			EntityKind: row.EntityKind,
			EntityID:   row.EntityID,
			CreatedAt:  row.CreatedAt,
		})
	}
	return favorites, nil
}
