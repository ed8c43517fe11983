// Package games stores the game catalog in PostgreSQL through pgx.
package games

import (
	"context"

	"github.com/dmitrijs2005/airconsole/internal/server/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the part of *pgxpool.Pool the repository uses.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository persists games. Missing rows return common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, game *models.Game) (*models.Game, error)
	GetByID(ctx context.Context, id string) (*models.Game, error)
	List(ctx context.Context, filter models.GameFilter) ([]*models.Game, error)
	Update(ctx context.Context, id string, patch models.GamePatch) (*models.Game, error)
	Delete(ctx context.Context, id string) error
}
