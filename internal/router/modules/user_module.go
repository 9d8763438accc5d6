package modules

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/recipes-auth/internal/application"
	handlers "github.com/oksasatya/recipes-auth/internal/interface/http"
	"github.com/oksasatya/recipes-auth/internal/interface/middleware"
)

// UserModule mounts the signed-in pages and JSON endpoints.
// Protected: GET /app, GET /api/me, GET /api/users/search
type UserModule struct {
	Handler *handlers.UserHandler
	Gate    *application.Gate
	Redis   *redis.Client
}

func NewUserModule(h *handlers.UserHandler, gate *application.Gate, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Gate: gate, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	loggedIn := middleware.RequireLoggedIn(m.Gate)

	rg.GET("/", func(c *gin.Context) { c.Redirect(http.StatusSeeOther, application.HomePath) })
	rg.GET(application.HomePath, loggedIn, m.Handler.Home)

	api := rg.Group("/api")
	api.Use(loggedIn)
	{
		api.GET("/me", m.Handler.Me)
		api.GET("/users/search", middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByUserID(), nil), m.Handler.SearchUsers)
	}
}
