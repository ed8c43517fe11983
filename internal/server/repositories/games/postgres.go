package games

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/airconsole/internal/common"
	"github.com/dmitrijs2005/airconsole/internal/dbx"
	"github.com/dmitrijs2005/airconsole/internal/server/models"
	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"
)

const gameColumns = `id, name, description, image_url, release_date, tags, publisher, active, created_at, updated_at`

type PostgresRepository struct {
	db Querier
}

func NewPostgresRepository(db Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, g *models.Game) (*models.Game, error) {
	if g.Tags == nil {
		g.Tags = []string{}
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO games (name, description, image_url, release_date, tags, publisher, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		g.Name, g.Description, g.ImageURL, g.ReleaseDate, g.Tags, g.Publisher, g.Active,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, wrap(err, "create game")
	}

	return g, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Game, error) {
	g, err := scanGame(r.db.QueryRow(ctx, `SELECT `+gameColumns+` FROM games WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, wrap(err, "get game", "game_id", id)
	}
	return g, nil
}

// List returns one page of games matching filter, newest first.
func (r *PostgresRepository) List(ctx context.Context, f models.GameFilter) ([]*models.Game, error) {
	query, args := buildListQuery(f)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap(err, "list games")
	}
	defer rows.Close()

	games := make([]*models.Game, 0)
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, wrap(err, "scan game")
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(err, "list games")
	}

	return games, nil
}

// Update applies the non-nil fields of patch in a single statement.
func (r *PostgresRepository) Update(ctx context.Context, id string, p models.GamePatch) (*models.Game, error) {
	var tags any
	if p.Tags != nil {
		tags = *p.Tags
	}

	g, err := scanGame(r.db.QueryRow(ctx,
		`UPDATE games SET
		   name = COALESCE($2, name),
		   description = COALESCE($3, description),
		   image_url = COALESCE($4, image_url),
		   release_date = COALESCE($5, release_date),
		   tags = COALESCE($6::text[], tags),
		   publisher = COALESCE($7, publisher),
		   active = COALESCE($8, active),
		   updated_at = now()
		 WHERE id = $1
		 RETURNING `+gameColumns,
		id, p.Name, p.Description, p.ImageURL, p.ReleaseDate, tags, p.Publisher, p.Active,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, wrap(err, "update game", "game_id", id)
	}
	return g, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		return wrap(err, "delete game", "game_id", id)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func buildListQuery(f models.GameFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if len(f.Tags) > 0 {
		where = append(where, "tags @> "+next(f.Tags))
	}
	if f.Query != "" {
		p := next("%" + escapeLike(f.Query) + "%")
		where = append(where, "(name ILIKE "+p+" OR description ILIKE "+p+")")
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + gameColumns + ` FROM games`)
	if len(where) > 0 {
		b.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY created_at DESC, id DESC")
	b.WriteString(" LIMIT " + next(f.Limit))
	b.WriteString(" OFFSET " + next(f.Offset()))

	return b.String(), args
}

// escapeLike makes the user's text match literally inside ILIKE.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanGame(row pgx.Row) (*models.Game, error) {
	g := &models.Game{}
	err := row.Scan(&g.ID, &g.Name, &g.Description, &g.ImageURL, &g.ReleaseDate, &g.Tags,
		&g.Publisher, &g.Active, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if g.Tags == nil {
		g.Tags = []string{}
	}
	return g, nil
}

func wrap(err error, op string, kv ...any) error {
	b := oops.In("games_repository").With("operation", op)
	if len(kv) > 0 {
		b = b.With(kv...)
	}
	if dbx.IsUniqueViolation(err) {
		return b.Wrap(errors.Join(common.ErrDuplicate, err))
	}
	return b.Wrapf(err, "db error")
}
