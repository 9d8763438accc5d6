package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipes-auth/internal/infrastructure/search"
	"github.com/oksasatya/recipes-auth/internal/interface/middleware"
	"github.com/oksasatya/recipes-auth/pkg/response"
)

type UserHandler struct {
	Search *search.UserIndexer
	Logger *logrus.Logger
}

func NewUserHandler(idx *search.UserIndexer, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Search: idx, Logger: logger}
}

// Home renders the signed-in landing page.
func (h *UserHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "app.html", page("Home", gin.H{"User": middleware.CurrentUserFrom(c)}))
}

func (h *UserHandler) Me(c *gin.Context) {
	u := middleware.CurrentUserFrom(c)
	response.Success(c, http.StatusOK, gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"name":       u.FullName(),
		"created_at": u.CreatedAt,
	}, "profile", nil)
}

// SearchUsers handles GET /api/users/search?q=&size=.
func (h *UserHandler) SearchUsers(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Search.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "users", gin.H{"count": len(hits)})
}
