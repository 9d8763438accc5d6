package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/recipes-auth/internal/application"
	handlers "github.com/oksasatya/recipes-auth/internal/interface/http"
	"github.com/oksasatya/recipes-auth/internal/interface/middleware"
)

// AuthModule mounts the magic-link pages.
//
//	GET  /login                 logged out only
//	POST /login                 logged out only, 5 req/min per IP
//	GET  /validate-magic-link   30 req/min per IP
//	POST /validate-magic-link   30 req/min per IP
//	GET  /logout
//	POST /fake-login            development only
type AuthModule struct {
	Handler *handlers.AuthHandler
	Gate    *application.Gate
	Redis   *redis.Client
	Allow   middleware.AllowFunc
	DevMode bool
}

func NewAuthModule(h *handlers.AuthHandler, gate *application.Gate, rdb *redis.Client, allow middleware.AllowFunc, devMode bool) *AuthModule {
	return &AuthModule{Handler: h, Gate: gate, Redis: rdb, Allow: allow, DevMode: devMode}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(m.Redis, 5, time.Minute, middleware.KeyByIPAndPath(), m.Allow)
	linkLimiter := middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByIPAndPath(), m.Allow)
	loggedOut := middleware.RequireLoggedOut(m.Gate)

	rg.GET("/login", loggedOut, m.Handler.LoginPage)
	rg.POST("/login", loginLimiter, loggedOut, m.Handler.RequestLink)
	rg.GET(application.ValidatePath, linkLimiter, m.Handler.ValidateLink)
	rg.POST(application.ValidatePath, linkLimiter, m.Handler.CompleteSignup)
	rg.GET("/logout", m.Handler.Logout)

	if m.DevMode {
		rg.POST("/fake-login", linkLimiter, loggedOut, m.Handler.FakeLogin)
	}
}
