package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/airconsole/internal/dbx"
	"github.com/dmitrijs2005/airconsole/internal/server/repositories/games"
	"github.com/dmitrijs2005/airconsole/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a handle so services can run
// the same repository against a pool or a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Games(db games.Querier) games.Repository
}
