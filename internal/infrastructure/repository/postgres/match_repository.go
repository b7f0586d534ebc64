package postgres

import (
	"context"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/sporating/sporating/internal/domain/match"
	qb "github.com/sporating/sporating/internal/platform/querybuilder"
)

var matchColumns = []string{
	"id", "public_id", "external_id", "sport", "competition",
	"home_team", "away_team", "home_score", "away_score",
	"home_logo_url", "away_logo_url", "date", "status", "venue",
	"season", "event_type", "details", "avg_rating", "total_ratings",
	"created_at",
}

type matchRow struct {
	ID           int64     `db:"id"`
	PublicID     string    `db:"public_id"`
	ExternalID   string    `db:"external_id"`
	Sport        string    `db:"sport"`
	Competition  string    `db:"competition"`
	HomeTeam     string    `db:"home_team"`
	AwayTeam     string    `db:"away_team"`
	HomeScore    int       `db:"home_score"`
	AwayScore    int       `db:"away_score"`
	HomeLogoURL  string    `db:"home_logo_url"`
	AwayLogoURL  string    `db:"away_logo_url"`
	Date         time.Time `db:"date"`
	Status       string    `db:"status"`
	Venue        string    `db:"venue"`
	Season       string    `db:"season"`
	EventType    string    `db:"event_type"`
	Details      []byte    `db:"details"`
	AvgRating    float64   `db:"avg_rating"`
	TotalRatings int       `db:"total_ratings"`
	CreatedAt    time.Time `db:"created_at"`
}

func (r matchRow) toDomain() (match.Match, error) {
	details := map[string]string{}
	if len(r.Details) > 0 {
		if err := sonic.Unmarshal(r.Details, &details); err != nil {
			return match.Match{}, crerr.Wrap(err, "decode match details")
		}
	}
	return match.Match{
		ID:           r.ID,
		PublicID:     r.PublicID,
		ExternalID:   r.ExternalID,
		Sport:        r.Sport,
		Competition:  r.Competition,
		HomeTeam:     r.HomeTeam,
		AwayTeam:     r.AwayTeam,
		HomeScore:    r.HomeScore,
		AwayScore:    r.AwayScore,
		HomeLogoURL:  r.HomeLogoURL,
		AwayLogoURL:  r.AwayLogoURL,
		Date:         r.Date,
		Status:       r.Status,
		Venue:        r.Venue,
		Season:       r.Season,
		EventType:    r.EventType,
		Details:      details,
		AvgRating:    r.AvgRating,
		TotalRatings: r.TotalRatings,
		CreatedAt:    r.CreatedAt,
	}, nil
}

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func (r *MatchRepository) FindByExternalID(ctx context.Context, sport, externalID string) (*match.Match, error) {
	if externalID == "" {
		return nil, nil
	}
	query, args, err := qb.Select(matchColumns...).
		From("matches").
		Where(qb.Eq("sport", sport), qb.Eq("external_id", externalID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, err
	}
	return r.getOne(ctx, query, args)
}

func (r *MatchRepository) FindSimilar(ctx context.Context, homeTeam, awayTeam, competition string, from, to time.Time) (*match.Match, error) {
	query, args, err := qb.Select(matchColumns...).
		From("matches").
		Where(
			qb.Eq("home_team", homeTeam),
			qb.Eq("away_team", awayTeam),
			qb.Eq("competition", competition),
			qb.Gte("date", from),
			qb.Lte("date", to),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, err
	}
	return r.getOne(ctx, query, args)
}

func (r *MatchRepository) Insert(ctx context.Context, m match.Match) (match.Match, error) {
	details, err := sonic.Marshal(m.Details)
	if err != nil {
		return match.Match{}, crerr.Wrap(err, "encode match details")
	}

	query, args, err := qb.InsertInto("matches").
		Columns(
			"public_id", "external_id", "sport", "competition",
			"home_team", "away_team", "home_score", "away_score",
			"home_logo_url", "away_logo_url", "date", "status", "venue",
			"season", "event_type", "details",
		).
		Values(
			m.PublicID, m.ExternalID, m.Sport, m.Competition,
			m.HomeTeam, m.AwayTeam, m.HomeScore, m.AwayScore,
			m.HomeLogoURL, m.AwayLogoURL, m.Date, m.Status, m.Venue,
			m.Season, m.EventType, details,
		).
		Suffix("RETURNING id, created_at").
		ToSQL()
	if err != nil {
		return match.Match{}, err
	}

	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&m.ID, &m.CreatedAt); err != nil {
		return match.Match{}, crerr.Wrap(err, "insert match")
	}
	return m, nil
}

func (r *MatchRepository) GetByPublicID(ctx context.Context, publicID string) (*match.Match, error) {
	query, args, err := qb.Select(matchColumns...).
		From("matches").
		Where(qb.Eq("public_id", publicID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, err
	}
	return r.getOne(ctx, query, args)
}

func (r *MatchRepository) ListByIDs(ctx context.Context, ids []int64) ([]match.Match, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	values := make([]any, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}
	query, args, err := qb.Select(matchColumns...).
		From("matches").
		Where(qb.In("id", values)).
		ToSQL()
	if err != nil {
		return nil, err
	}
	return r.selectMany(ctx, query, args)
}

func (r *MatchRepository) List(ctx context.Context, filter match.Filter) ([]match.Match, error) {
	builder := qb.Select(matchColumns...).From("matches")

	var conditions []qb.Condition
	if filter.Sport != "" {
		conditions = append(conditions, qb.Eq("sport", filter.Sport))
	}
	if filter.Competition != "" {
		conditions = append(conditions, qb.Eq("competition", filter.Competition))
	}
	if !filter.From.IsZero() {
		conditions = append(conditions, qb.Gte("date", filter.From))
	}
	if !filter.To.IsZero() {
		conditions = append(conditions, qb.Lte("date", filter.To))
	}
	if len(conditions) > 0 {
		builder = builder.Where(conditions...)
	}

	query, args, err := builder.
		OrderBy("date DESC", "id DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		ToSQL()
	if err != nil {
		return nil, err
	}
	return r.selectMany(ctx, query, args)
}

func (r *MatchRepository) UpdateRatingAggregates(ctx context.Context, id int64, avgRating float64, totalRatings int) error {
	query, args, err := qb.Update("matches").
		Set("avg_rating", avgRating).
		Set("total_ratings", totalRatings).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return crerr.Wrap(err, "update match aggregates")
	}
	return nil
}

func (r *MatchRepository) getOne(ctx context.Context, query string, args []any) (*match.Match, error) {
	var row matchRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, crerr.Wrap(err, "query match")
	}
	m, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MatchRepository) selectMany(ctx context.Context, query string, args []any) ([]match.Match, error) {
	var rows []matchRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "query matches")
	}
	matches := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		m, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, nil
}
