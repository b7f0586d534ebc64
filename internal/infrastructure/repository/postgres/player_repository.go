package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/sporating/sporating/internal/domain/player"
	qb "github.com/sporating/sporating/internal/platform/querybuilder"
)

var playerColumns = []string{
	"id", "name", "team", "sport", "position", "image_url", "created_at",
}

type playerRow struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Team      string    `db:"team"`
	Sport     string    `db:"sport"`
	Position  string    `db:"position"`
	ImageURL  string    `db:"image_url"`
	CreatedAt time.Time `db:"created_at"`
}

func (r playerRow) toDomain() player.Player {
	return player.Player{
		ID:        r.ID,
		Name:      r.Name,
		Team:      r.Team,
		Sport:     r.Sport,
		Position:  r.Position,
		ImageURL:  r.ImageURL,
		CreatedAt: r.CreatedAt,
	}
}

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) List(ctx context.Context, sport, position string) ([]player.Player, error) {
	builder := qb.Select(playerColumns...).From("players")

	var conditions []qb.Condition
	if sport != "" {
		conditions = append(conditions, qb.Eq("sport", sport))
	}
	if position != "" {
		conditions = append(conditions, qb.Eq("position", position))
	}
	if len(conditions) > 0 {
		builder = builder.Where(conditions...)
	}

	query, args, err := builder.OrderBy("id ASC").ToSQL()
	if err != nil {
		return nil, err
	}

	var rows []playerRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "query players")
	}
	players := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		players = append(players, row.toDomain())
	}
	return players, nil
}

func (r *PlayerRepository) FindByTuple(ctx context.Context, name, team, sport, position string) (*player.Player, error) {
	query, args, err := qb.Select(playerColumns...).
		From("players").
		Where(
			qb.Eq("name", name),
			qb.Eq("team", team),
			qb.Eq("sport", sport),
			qb.Eq("position", position),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var row playerRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, crerr.Wrap(err, "query player")
	}
	p := row.toDomain()
	return &p, nil
}

func (r *PlayerRepository) Insert(ctx context.Context, p player.Player) (player.Player, error) {
	query, args, err := qb.InsertInto("players").
		Columns("name", "team", "sport", "position", "image_url").
		Values(p.Name, p.Team, p.Sport, p.Position, p.ImageURL).
		Suffix("RETURNING id, created_at").
		ToSQL()
	if err != nil {
		return player.Player{}, err
	}
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&p.ID, &p.CreatedAt); err != nil {
		return player.Player{}, crerr.Wrap(err, "insert player")
	}
	return p, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (*player.Player, error) {
	query, args, err := qb.Select(playerColumns...).
		From("players").
		Where(qb.Eq("id", id)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, err
	}

	var row playerRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, crerr.Wrap(err, "query player")
	}
	p := row.toDomain()
	return &p, nil
}
