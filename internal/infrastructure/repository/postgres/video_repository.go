package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/sporating/sporating/internal/domain/video"
	qb "github.com/sporating/sporating/internal/platform/querybuilder"
)

var videoColumns = []string{
	"id", "match_id", "user_id", "title", "url",
	"upvotes", "downvotes", "created_at",
}

type videoRow struct {
	ID        int64     `db:"id"`
	MatchID   int64     `db:"match_id"`
	UserID    string    `db:"user_id"`
	Title     string    `db:"title"`
	URL       string    `db:"url"`
	Upvotes   int       `db:"upvotes"`
	Downvotes int       `db:"downvotes"`
	CreatedAt time.Time `db:"created_at"`
}

func (r videoRow) toDomain() video.Suggestion {
	return video.Suggestion{
		ID:        r.ID,
		MatchID:   r.MatchID,
		UserID:    r.UserID,
		Title:     r.Title,
		URL:       r.URL,
		Upvotes:   r.Upvotes,
		Downvotes: r.Downvotes,
		CreatedAt: r.CreatedAt,
	}
}

type VideoRepository struct {
	db *sqlx.DB
}

func NewVideoRepository(db *sqlx.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Insert(ctx context.Context, s video.Suggestion) (video.Suggestion, error) {
	query, args, err := qb.InsertInto("video_suggestions").
		Columns("match_id", "user_id", "title", "url").
		Values(s.MatchID, s.UserID, s.Title, s.URL).
		Suffix("RETURNING id, created_at").
		ToSQL()
	if err != nil {
		return video.Suggestion{}, err
	}
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&s.ID, &s.CreatedAt); err != nil {
		return video.Suggestion{}, crerr.Wrap(err, "insert video suggestion")
	}
	return s, nil
}

func (r *VideoRepository) GetByID(ctx context.Context, id int64) (*video.Suggestion, error) {
	query, args, err := qb.Select(videoColumns...).
		From("video_suggestions").
		Where(qb.Eq("id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var row videoRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, crerr.Wrap(err, "query video suggestion")
	}
	s := row.toDomain()
	return &s, nil
}

func (r *VideoRepository) ListByMatch(ctx context.Context, matchID int64) ([]video.Suggestion, error) {
	query, args, err := qb.Select(videoColumns...).
		From("video_suggestions").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("(upvotes - downvotes) DESC", "created_at DESC").
		ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []videoRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "query video suggestions")
	}
	suggestions := make([]video.Suggestion, 0, len(rows))
	for _, row := range rows {
		suggestions = append(suggestions, row.toDomain())
	}
	return suggestions, nil
}

// CastVote stores the user's vote and reconciles the counters in one
// transaction. A repeated identical vote is a no-op; a flipped vote moves
// the counter from one side to the other.
func (r *VideoRepository) CastVote(ctx context.Context, suggestionID int64, userID string, value int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	var previous int
	query, args, err := qb.Select("value").
		From("video_votes").
		Where(qb.Eq("suggestion_id", suggestionID), qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return err
	}
	err = tx.GetContext(ctx, &previous, query+" FOR UPDATE", args...)
	hadVote := err == nil
	if err != nil && !isNotFound(err) {
		return crerr.Wrap(err, "query existing vote")
	}
	if hadVote && previous == value {
		return tx.Commit()
	}

	upsert, upsertArgs, err := qb.InsertInto("video_votes").
		Columns("suggestion_id", "user_id", "value").
		Values(suggestionID, userID, value).
		Suffix("ON CONFLICT (suggestion_id, user_id) DO UPDATE SET value = EXCLUDED.value").
		ToSQL()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, upsert, upsertArgs...); err != nil {
		return crerr.Wrap(err, "store vote")
	}

	upDelta, downDelta := 0, 0
	if hadVote {
		if previous == video.VoteUp {
			upDelta--
		} else {
			downDelta--
		}
	}
	if value == video.VoteUp {
		upDelta++
	} else {
		downDelta++
	}

	update, updateArgs, err := qb.Update("video_suggestions").
		SetExpr("upvotes", "upvotes + ?", upDelta).
		SetExpr("downvotes", "downvotes + ?", downDelta).
		Where(qb.Eq("id", suggestionID)).
		ToSQL()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, update, updateArgs...); err != nil {
		return crerr.Wrap(err, "update vote counters")
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit vote")
	}
	return nil
}
