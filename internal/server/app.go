// Package server wires configuration, storage and services together and
// runs the HTTP API until the process is signalled to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/airconsole/internal/logging"
	"github.com/dmitrijs2005/airconsole/internal/server/auth"
	"github.com/dmitrijs2005/airconsole/internal/server/cache"
	"github.com/dmitrijs2005/airconsole/internal/server/config"
	"github.com/dmitrijs2005/airconsole/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/airconsole/internal/server/rest"
	"github.com/dmitrijs2005/airconsole/internal/server/services"
	"github.com/dmitrijs2005/airconsole/internal/server/storage"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config *config.Config
	logger logging.Logger
	pool   *pgxpool.Pool
	db     *sql.DB
	redis  *redis.Client
	server *rest.HTTPServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	if err := checkConfig(ctx, c, logger); err != nil {
		return nil, err
	}

	pool, err := newPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	db := stdlib.OpenDBFromPool(pool)

	app := &App{config: c, logger: logger, pool: pool, db: db}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		app.close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	var gameCache services.GameCache
	if c.RedisAddr != "" {
		rdb, err := newRedis(ctx, c)
		if err != nil {
			app.close()
			return nil, err
		}
		app.redis = rdb
		gameCache = cache.NewGameCache(rdb, c.CacheTTL)
	} else {
		logger.Info(ctx, "redis address not set, game list cache disabled")
	}

	hasher, err := auth.NewBcryptHasher(c.BcryptCost)
	if err != nil {
		app.close()
		return nil, err
	}
	tokens, err := auth.NewTokenIssuer(auth.TokenConfig{Secret: []byte(c.SecretKey), Validity: c.TokenValidityDuration})
	if err != nil {
		app.close()
		return nil, err
	}

	authService, err := services.NewAuthService(db, rm, hasher, tokens)
	if err != nil {
		app.close()
		return nil, err
	}

	images := storage.NewImageStore(storage.S3Config{
		Region:        c.S3Region,
		AccessKey:     c.S3RootUser,
		SecretKey:     c.S3RootPassword,
		Bucket:        c.S3Bucket,
		BaseEndpoint:  c.S3BaseEndpoint,
		PublicBaseURL: c.S3PublicBaseURL,
	})

	gin.SetMode(gin.ReleaseMode)
	router := rest.NewRouter(rest.RouterConfig{
		Auth:    authService,
		Users:   services.NewUserService(db, rm, hasher),
		Games:   services.NewGameService(pool, rm, gameCache, images, logger.With("module", "games")),
		Tokens:  tokens,
		Metrics: rest.NewMetrics(),
		Logger:  logger.With("module", "http"),
	})

	app.server = rest.NewHTTPServer(c.EndpointAddrHTTP, logger, router, c.ShutdownTimeout)
	return app, nil
}

// checkConfig rejects unusable settings. The built-in secret only produces a
// warning unless RequireSecret is set.
func checkConfig(ctx context.Context, c *config.Config, logger logging.Logger) error {
	err := c.Validate()
	if err == nil {
		return nil
	}
	if config.OnlyInsecureSecret(err) && !c.RequireSecret {
		logger.Warn(ctx, "JWT secret is the built-in default; set JWT_SECRET before deploying")
		return nil
	}
	return fmt.Errorf("invalid configuration: %w", err)
}

func newPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func newRedis(ctx context.Context, c *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close()
	app.logger.Info(ctx, "App stopped")
}

func (app *App) close() {
	if app.redis != nil {
		_ = app.redis.Close()
	}
	if app.db != nil {
		_ = app.db.Close()
	}
	if app.pool != nil {
		app.pool.Close()
	}
}
