package rest

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/airconsole/internal/common"
	"github.com/dmitrijs2005/airconsole/internal/dbx"
	"github.com/dmitrijs2005/airconsole/internal/logging"
	"github.com/dmitrijs2005/airconsole/internal/server/auth"
	"github.com/dmitrijs2005/airconsole/internal/server/models"
	"github.com/dmitrijs2005/airconsole/internal/server/repositories/games"
	"github.com/dmitrijs2005/airconsole/internal/server/repositories/users"
	"github.com/dmitrijs2005/airconsole/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memUsers is an in-memory users.Repository with a unique email.
type memUsers struct {
	mu   sync.Mutex
	byID map[string]models.User
}

func (r *memUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.byID {
		if e.Email == u.Email {
			return nil, common.ErrDuplicate
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	r.byID[u.ID] = *u
	return u, nil
}

func (r *memUsers) find(match func(models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if match(u) {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *memUsers) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

func (r *memUsers) LockUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.GetUserByID(ctx, id)
}

func (r *memUsers) List(ctx context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (r *memUsers) Update(ctx context.Context, u *models.User) (*models.User, error) {
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
	u.UpdatedAt = time.Now().UTC()
	r.byID[u.ID] = *u
	return u, nil
}

func (r *memUsers) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}

// memGames is an in-memory games.Repository; List ignores the filter.
type memGames struct {
	mu   sync.Mutex
	byID map[string]models.Game
}

func (r *memGames) Create(ctx context.Context, g *models.Game) (*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g.ID = uuid.NewString()
	g.CreatedAt = time.Now().UTC()
	g.UpdatedAt = g.CreatedAt
	r.byID[g.ID] = *g
	return g, nil
}

func (r *memGames) GetByID(ctx context.Context, id string) (*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &g, nil
}

func (r *memGames) List(ctx context.Context, f models.GameFilter) ([]*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Game, 0, len(r.byID))
	for _, g := range r.byID {
		out = append(out, &g)
	}
	return out, nil
}

func (r *memGames) Update(ctx context.Context, id string, p models.GamePatch) (*models.Game, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	p.Apply(&g)
	r.byID[id] = g
	return &g, nil
}

func (r *memGames) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}

type memRepoManager struct {
	users *memUsers
	games *memGames
}

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepoManager) Users(dbx.DBTX) users.Repository              { return m.users }
func (m *memRepoManager) Games(games.Querier) games.Repository         { return m.games }

type stubImages struct{}

func (stubImages) PresignPut(ctx context.Context, key, contentType string) (string, error) {
	return "https://upload.example/" + key + "?sig=1", nil
}

func (stubImages) PublicURL(key string) string { return "https://cdn.example/" + key }

type testAPI struct {
	router  *gin.Engine
	tokens  *auth.TokenIssuer
	metrics *Metrics
	sqlmock sqlmock.Sqlmock
	rm      *memRepoManager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm := &memRepoManager{
		users: &memUsers{byID: map[string]models.User{}},
		games: &memGames{byID: map[string]models.Game{}},
	}

	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := auth.NewTokenIssuer(auth.TokenConfig{Secret: []byte("test-secret"), Validity: time.Hour})
	require.NoError(t, err)

	authSvc, err := services.NewAuthService(db, rm, hasher, tokens)
	require.NoError(t, err)

	metrics := NewMetrics()
	router := NewRouter(RouterConfig{
		Auth:    authSvc,
		Users:   services.NewUserService(db, rm, hasher),
		Games:   services.NewGameService(nil, rm, nil, stubImages{}, logging.Nop()),
		Tokens:  tokens,
		Metrics: metrics,
		Logger:  logging.Nop(),
	})

	return &testAPI{router: router, tokens: tokens, metrics: metrics, sqlmock: mock, rm: rm}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, header ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[messageResponse](t, w).Message
}

func (a *testAPI) register(t *testing.T, username, email string) authResponse {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username, "email": email, "password": "Passw0rd!Passw0rd!",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[authResponse](t, w)
}
