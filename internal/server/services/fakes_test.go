package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/airconsole/internal/common"
	"github.com/dmitrijs2005/airconsole/internal/dbx"
	"github.com/dmitrijs2005/airconsole/internal/server/models"
	"github.com/dmitrijs2005/airconsole/internal/server/repositories/games"
	"github.com/dmitrijs2005/airconsole/internal/server/repositories/users"
	"github.com/google/uuid"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// memUsers is an in-memory users.Repository keyed by id with a unique email.
type memUsers struct {
	mu   sync.Mutex
	byID map[string]*models.User

	err       error // returned by every call when set
	createErr error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*models.User{}}
}

func (r *memUsers) add(u *models.User) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	r.byID[u.ID] = u
	return u
}

func (r *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.byID {
		if e.Email == u.Email {
			return nil, common.ErrDuplicate
		}
	}
	cp := *u
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.byID[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsers) LockUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.GetUserByID(ctx, id)
}

func (r *memUsers) List(ctx context.Context) ([]*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.User, 0, len(r.byID))
	for _, u := range r.byID {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memUsers) Update(ctx context.Context, u *models.User) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	for _, e := range r.byID {
		if e.ID != u.ID && e.Email == u.Email {
			return nil, common.ErrDuplicate
		}
	}
	cp := *u
	cp.UpdatedAt = time.Now()
	r.byID[u.ID] = &cp
	out := cp
	return &out, nil
}

func (r *memUsers) Delete(ctx context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}

// fakeGames records calls and returns canned values.
type fakeGames struct {
	game      *models.Game
	list      []*models.Game
	err       error
	listCalls atomic.Int32
	listGate  chan struct{}

	lastPatch  models.GamePatch
	lastCreate *models.Game
}

func (r *fakeGames) Create(ctx context.Context, g *models.Game) (*models.Game, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.lastCreate = g
	out := *g
	out.ID = uuid.NewString()
	return &out, nil
}

func (r *fakeGames) GetByID(ctx context.Context, id string) (*models.Game, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.game == nil {
		return nil, common.ErrorNotFound
	}
	return r.game, nil
}

func (r *fakeGames) List(ctx context.Context, f models.GameFilter) ([]*models.Game, error) {
	r.listCalls.Add(1)
	if r.listGate != nil {
		select {
		case <-r.listGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return r.list, nil
}

func (r *fakeGames) Update(ctx context.Context, id string, p models.GamePatch) (*models.Game, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.game == nil {
		return nil, common.ErrorNotFound
	}
	r.lastPatch = p
	out := *r.game
	p.Apply(&out)
	return &out, nil
}

func (r *fakeGames) Delete(ctx context.Context, id string) error {
	if r.err != nil {
		return r.err
	}
	if r.game == nil {
		return common.ErrorNotFound
	}
	return nil
}

type fakeRepoManager struct {
	users users.Repository
	games games.Repository
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return m.users }
func (m *fakeRepoManager) Games(db games.Querier) games.Repository      { return m.games }

type fakeCache struct {
	mu          sync.Mutex
	data        map[string][]*models.Game
	getErr      error
	setErr      error
	invalidated int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]*models.Game{}}
}

func (c *fakeCache) GetList(ctx context.Context, key string) ([]*models.Game, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	g, ok := c.data[key]
	return g, ok, nil
}

func (c *fakeCache) SetList(ctx context.Context, key string, games []*models.Game) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = games
	return nil
}

func (c *fakeCache) InvalidateAll(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.data = map[string][]*models.Game{}
	return nil
}

type fakeImages struct {
	err        error
	key, ctype string
}

func (f *fakeImages) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.key, f.ctype = key, contentType
	return "https://upload.example/" + key, nil
}

func (f *fakeImages) PublicURL(key string) string {
	return "https://cdn.example/" + key
}
