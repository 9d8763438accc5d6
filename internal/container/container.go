package container

import (
	"context"
	"errors"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipes-auth/config"
	pginfra "github.com/oksasatya/recipes-auth/internal/infrastructure/postgres"
	"github.com/oksasatya/recipes-auth/pkg/helpers"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	redisClient *redis.Client
	rabbitPub   *helpers.RabbitPublisher
	esClient    *elasticsearch.Client

	dbOnce sync.Once
	dbPool *pgxpool.Pool
	dbErr  error
)

var errNoConfig = errors.New("container: config not set")

func SetConfig(c *config.Config)              { cfg = c }
func GetConfig() *config.Config               { return cfg }
func SetLogger(l *logrus.Logger)              { logger = l }
func GetLogger() *logrus.Logger               { return logger }
func SetRedis(r *redis.Client)                { redisClient = r }
func GetRedis() *redis.Client                 { return redisClient }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }

// DB returns the process-wide Postgres pool, opening it on first use. Later calls
// return the same pool (or the same error) without reconnecting.
func DB(ctx context.Context) (*pgxpool.Pool, error) {
	dbOnce.Do(func() {
		if cfg == nil {
			dbErr = errNoConfig
			return
		}
		dbPool, dbErr = pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	})
	return dbPool, dbErr
}

// CloseDB closes the pool if it was opened.
func CloseDB() {
	if dbPool != nil {
		dbPool.Close()
	}
}
