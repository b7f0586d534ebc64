package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/sporating/sporating/internal/domain/matchlist"
	qb "github.com/sporating/sporating/internal/platform/querybuilder"
)

var matchListColumns = []string{"id", "public_id", "user_id", "name", "created_at"}

type matchListRow struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

type matchListEntryRow struct {
	ListID   int64 `db:"list_id"`
	MatchID  int64 `db:"match_id"`
	Position int   `db:"position"`
}

type MatchListRepository struct {
	db *sqlx.DB
}

func NewMatchListRepository(db *sqlx.DB) *MatchListRepository {
	return &MatchListRepository{db: db}
}

func (r *MatchListRepository) Create(ctx context.Context, list matchlist.MatchList) (matchlist.MatchList, error) {
	query, args, err := qb.InsertInto("match_lists").
		Columns("public_id", "user_id", "name").
		Values(list.PublicID, list.UserID, list.Name).
		Suffix("RETURNING id, created_at").
		ToSQL()
	if err != nil {
		return matchlist.MatchList{}, err
	}
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&list.ID, &list.CreatedAt); err != nil {
		return matchlist.MatchList{}, crerr.Wrap(err, "insert match list")
	}
	return list, nil
}

func (r *MatchListRepository) GetByPublicID(ctx context.Context, publicID string) (*matchlist.MatchList, error) {
	query, args, err := qb.Select(matchListColumns...).
		From("match_lists").
		Where(qb.Eq("public_id", publicID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var row matchListRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, crerr.Wrap(err, "query match list")
	}

	entries, err := r.loadEntries(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	list := row.toDomain(entries)
	return &list, nil
}

func (r *MatchListRepository) ListByUser(ctx context.Context, userID string) ([]matchlist.MatchList, error) {
	query, args, err := qb.Select(matchListColumns...).
		From("match_lists").
		Where(qb.Eq("user_id", userID)).
		OrderBy("id ASC").
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []matchListRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "query match lists")
	}

	lists := make([]matchlist.MatchList, 0, len(rows))
	for _, row := range rows {
		entries, err := r.loadEntries(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		lists = append(lists, row.toDomain(entries))
	}
	return lists, nil
}

func (r *MatchListRepository) Rename(ctx context.Context, id int64, name string) error {
	query, args, err := qb.Update("match_lists").
		Set("name", name).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrap(err, "rename match list")
	}
	return nil
}

func (r *MatchListRepository) Delete(ctx context.Context, id int64) error {
	// Entries cascade via the foreign key.
	query, args, err := qb.DeleteFrom("match_lists").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrap(err, "delete match list")
	}
	return nil
}

func (r *MatchListRepository) SetEntries(ctx context.Context, id int64, entries []matchlist.Entry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("match_list_entries").
		Where(qb.Eq("list_id", id)).
		ToSQL()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return crerr.Wrap(err, "clear match list entries")
	}

	for _, entry := range entries {
		insertQuery, insertArgs, err := qb.InsertInto("match_list_entries").
			Columns("list_id", "match_id", "position").
			Values(id, entry.MatchID, entry.Position).
			ToSQL()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return crerr.Wrap(err, "insert match list entry")
		}
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit match list entries")
	}
	return nil
}

func (r *MatchListRepository) loadEntries(ctx context.Context, listID int64) ([]matchlist.Entry, error) {
	query, args, err := qb.Select("list_id", "match_id", "position").
		From("match_list_entries").
		Where(qb.Eq("list_id", listID)).
		OrderBy("position ASC").
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []matchListEntryRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "query match list entries")
	}
	entries := make([]matchlist.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, matchlist.Entry{MatchID: row.MatchID, Position: row.Position})
	}
	return entries, nil
}

func (r matchListRow) toDomain(entries []matchlist.Entry) matchlist.MatchList {
	return matchlist.MatchList{
		ID:        r.ID,
		PublicID:  r.PublicID,
		UserID:    r.UserID,
		Name:      r.Name,
		Entries:   entries,
		CreatedAt: r.CreatedAt,
	}
}
