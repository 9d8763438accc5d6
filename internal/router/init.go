package router

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipes-auth/config"
	"github.com/oksasatya/recipes-auth/internal/application"
	"github.com/oksasatya/recipes-auth/internal/container"
	repo "github.com/oksasatya/recipes-auth/internal/domain/repository"
	pginfra "github.com/oksasatya/recipes-auth/internal/infrastructure/postgres"
	"github.com/oksasatya/recipes-auth/internal/infrastructure/search"
	handlers "github.com/oksasatya/recipes-auth/internal/interface/http"
	"github.com/oksasatya/recipes-auth/internal/interface/middleware"
	"github.com/oksasatya/recipes-auth/internal/router/modules"
	"github.com/oksasatya/recipes-auth/pkg/session"
	"github.com/oksasatya/recipes-auth/pkg/tokencodec"
)

// Deps is everything the HTTP modules are built from.
type Deps struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Users   repo.UserRepository
	Audit   repo.AuditRepository
	Redis   *redis.Client
	Mail    application.JobPublisher
	Indexer *search.UserIndexer
	// Now overrides the clock of sessions and magic links.
	Now func() time.Time
}

// DepsFromContainer wires Deps from the process singletons, opening the database on
// first use.
func DepsFromContainer(ctx context.Context) (Deps, error) {
	cfg := container.GetConfig()
	pool, err := container.DB(ctx)
	if err != nil {
		return Deps{}, fmt.Errorf("database: %w", err)
	}
	d := Deps{
		Config:  cfg,
		Logger:  container.GetLogger(),
		Users:   pginfra.NewUserRepository(pool),
		Audit:   pginfra.NewAuditRepository(pool),
		Redis:   container.GetRedis(),
		Indexer: search.NewUserIndexer(container.GetES(), cfg.ESUsersIndex, container.GetLogger()),
	}
	// Leave Mail as a nil interface when there is no broker.
	if pub := container.GetRabbitPub(); pub != nil {
		d.Mail = pub
	}
	return d, nil
}

// NewEngine builds the gin engine with global middleware and the HTML views. It fails
// on a malformed trusted proxy entry.
func NewEngine(cfg *config.Config) (*gin.Engine, error) {
	r := gin.New()
	if err := middleware.TrustProxies(r, cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery())
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	origins := cfg.CORSOrigins()
	if len(origins) == 0 && cfg.Origin != "" {
		origins = []string{cfg.Origin}
	}
	if len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.SetHTMLTemplate(handlers.Views())
	return r, nil
}

// InitModules builds the services from d and registers every module on r.
func InitModules(r *Registry, d Deps) error {
	cfg := d.Config
	now := d.Now
	if now == nil {
		now = time.Now
	}

	store, err := session.NewStore(session.Options{
		Secrets: cfg.SessionSecrets,
		TTL:     cfg.SessionTTL,
		Secure:  cfg.CookieSecure,
		Now:     now,
	})
	if err != nil {
		return err
	}
	codec, err := tokencodec.New(cfg.MagicLinkSecret)
	if err != nil {
		return err
	}
	links := application.NewMagicLinks(codec, cfg.Origin, cfg.MagicLinkMaxAge).WithClock(now)

	var indexer application.UserIndexer
	if d.Indexer != nil {
		indexer = d.Indexer
	}
	svc := application.NewAuthService(d.Users, d.Audit, store, links, d.Mail, indexer, d.Logger)
	svc.AppName = cfg.AppName
	svc.ExposeLinks = cfg.MagicLinkExpose && cfg.IsDevelopment()
	gate := application.NewGate(d.Users)

	var allow middleware.AllowFunc
	if cfg.IsDevelopment() {
		allow = middleware.AllowPrivateIP()
	}

	r.Use(middleware.Session(store), handlers.ErrorBoundary(d.Logger))
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc, d.Logger, cfg.IsDevelopment()), gate, d.Redis, allow, cfg.IsDevelopment()))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(d.Indexer, d.Logger), gate, d.Redis))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(d.Redis))
	}
	r.RegisterAll()
	return nil
}
