package services

import (
	"context"
	"mime"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/airconsole/internal/common"
	"github.com/dmitrijs2005/airconsole/internal/logging"
	"github.com/dmitrijs2005/airconsole/internal/server/models"
	"github.com/dmitrijs2005/airconsole/internal/server/repositories/games"
	"github.com/dmitrijs2005/airconsole/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/airconsole/internal/server/storage"
	"golang.org/x/sync/singleflight"
)

// GameCache is satisfied by *cache.GameCache.
type GameCache interface {
	GetList(ctx context.Context, key string) ([]*models.Game, bool, error)
	SetList(ctx context.Context, key string, games []*models.Game) error
	InvalidateAll(ctx context.Context) error
}

// ImageStore is satisfied by *storage.ImageStore.
type ImageStore interface {
	PresignPut(ctx context.Context, key, contentType string) (string, error)
	PublicURL(key string) string
}

// ImageUpload tells the client where to PUT the image for a game.
type ImageUpload struct {
	UploadURL string
	Key       string
	Game      *models.Game
}

// GameService manages the game catalog. The list cache is optional.
type GameService struct {
	db          games.Querier
	repomanager repomanager.RepositoryManager
	cache       GameCache
	images      ImageStore
	logger      logging.Logger

	group        singleflight.Group
	queryTimeout time.Duration
	now          func() time.Time

	// cacheMu orders list writes against invalidations; gen counts
	// invalidations so a page read before a write is never cached after it.
	cacheMu sync.Mutex
	gen     uint64
}

// sharedQueryTimeout bounds a list query that outlives the request that started it.
const sharedQueryTimeout = 30 * time.Second

func NewGameService(db games.Querier, m repomanager.RepositoryManager, cache GameCache, images ImageStore, logger logging.Logger) *GameService {
	return &GameService{
		db:          db,
		repomanager: m,
		cache:       cache,
		images:      images,
		logger:      logger,

		queryTimeout: sharedQueryTimeout,
		now:          time.Now,
	}
}

// Create stores a new game. The name is required; active defaults to true.
func (s *GameService) Create(ctx context.Context, in models.GamePatch) (*models.Game, error) {
	if err := normalizeGamePatch(&in); err != nil {
		return nil, err
	}
	if in.Name == nil {
		return nil, common.ErrNameRequired
	}

	g := &models.Game{Active: true, Tags: []string{}}
	in.Apply(g)

	created, err := s.repomanager.Games(s.db).Create(ctx, g)
	if err != nil {
		return nil, storeErr("create game", err)
	}

	s.invalidate(ctx)
	return created, nil
}

// List returns one page of games. Pages are served from the cache when one
// is configured; concurrent misses for the same page share one query.
func (s *GameService) List(ctx context.Context, f models.GameFilter) ([]*models.Game, error) {
	if s.cache == nil {
		return s.list(ctx, f)
	}

	key := f.CacheKey()
	cached, ok, err := s.cache.GetList(ctx, key)
	if err != nil {
		s.logger.Warn(ctx, "game cache read failed", "key", key, "error", err)
	}
	if ok {
		return cached, nil
	}

	ch := s.group.DoChan(key, func() (any, error) {
		// outlives the leader's request; followers wait on the same result
		qctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.queryTimeout)
		defer cancel()

		s.cacheMu.Lock()
		gen := s.gen
		s.cacheMu.Unlock()

		list, err := s.list(qctx, f)
		if err != nil {
			return nil, err
		}
		s.storePage(qctx, key, gen, list)
		return list, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]*models.Game), nil
	}
}

// storePage caches list unless the catalog was invalidated after gen was read.
func (s *GameService) storePage(ctx context.Context, key string, gen uint64, list []*models.Game) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.gen != gen {
		return
	}
	if err := s.cache.SetList(ctx, key, list); err != nil {
		s.logger.Warn(ctx, "game cache write failed", "key", key, "error", err)
	}
}

func (s *GameService) list(ctx context.Context, f models.GameFilter) ([]*models.Game, error) {
	list, err := s.repomanager.Games(s.db).List(ctx, f)
	if err != nil {
		return nil, storeErr("list games", err)
	}
	return list, nil
}

func (s *GameService) Get(ctx context.Context, id string) (*models.Game, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	g, err := s.repomanager.Games(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get game", err)
	}
	return g, nil
}

func (s *GameService) Update(ctx context.Context, id string, patch models.GamePatch) (*models.Game, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, common.ErrNoUpdates
	}
	if err := normalizeGamePatch(&patch); err != nil {
		return nil, err
	}

	g, err := s.repomanager.Games(s.db).Update(ctx, id, patch)
	if err != nil {
		return nil, storeErr("update game", err)
	}

	s.invalidate(ctx)
	return g, nil
}

func (s *GameService) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	if err := s.repomanager.Games(s.db).Delete(ctx, id); err != nil {
		return storeErr("delete game", err)
	}

	s.invalidate(ctx)
	return nil
}

// PresignImageUpload reserves an object key for the game's image, points
// the game's imageUrl at it and returns a presigned PUT URL.
func (s *GameService) PresignImageUpload(ctx context.Context, id, contentType string) (*ImageUpload, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, common.ErrNotImage
	}

	repo := s.repomanager.Games(s.db)
	if _, err := repo.GetByID(ctx, id); err != nil {
		return nil, storeErr("get game", err)
	}

	key := storage.NewImageKey(s.now(), imageExt(contentType))

	url, err := s.images.PresignPut(ctx, key, contentType)
	if err != nil {
		return nil, err
	}

	public := s.images.PublicURL(key)
	g, err := repo.Update(ctx, id, models.GamePatch{ImageURL: &public})
	if err != nil {
		return nil, storeErr("update game image", err)
	}

	s.invalidate(ctx)
	return &ImageUpload{UploadURL: url, Key: key, Game: g}, nil
}

func (s *GameService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.gen++
	if err := s.cache.InvalidateAll(ctx); err != nil {
		s.logger.Warn(ctx, "game cache invalidation failed", "error", err)
	}
}

// normalizeGamePatch trims the name and cleans the tag list.
func normalizeGamePatch(p *models.GamePatch) error {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return common.ErrNameRequired
		}
		p.Name = &name
	}
	if p.Tags != nil {
		tags := models.CleanTags(*p.Tags)
		p.Tags = &tags
	}
	return nil
}

func imageExt(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	exts, err := mime.ExtensionsByType(contentType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}
