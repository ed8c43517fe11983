// Package cache keeps read-through copies of game listings in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dmitrijs2005/airconsole/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const keyGameList = "games:list:"

// GameCache caches pages of the game catalog keyed by GameFilter.CacheKey.
type GameCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewGameCache(rdb *redis.Client, ttl time.Duration) *GameCache {
	return &GameCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached page for key; ok is false on a miss.
func (c *GameCache) GetList(ctx context.Context, key string) (games []*models.Game, ok bool, err error) {
	b, err := c.rdb.Get(ctx, keyGameList+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if err := json.Unmarshal(b, &games); err != nil {
		return nil, false, err
	}
	return games, true, nil
}

func (c *GameCache) SetList(ctx context.Context, key string, games []*models.Game) error {
	b, err := json.Marshal(games)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyGameList+key, b, c.ttl).Err()
}

// InvalidateAll drops every cached page. Called after any catalog write.
func (c *GameCache) InvalidateAll(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, keyGameList+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
