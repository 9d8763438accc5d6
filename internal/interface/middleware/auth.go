package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/recipes-auth/internal/application"
	"github.com/oksasatya/recipes-auth/internal/domain/entity"
	"github.com/oksasatya/recipes-auth/pkg/session"
)

// Gin context keys.
const (
	ctxSession     = "session"
	ctxCurrentUser = "currentUser"
	CtxUserID      = "userID"
)

// Session decodes the session cookie once per request. A bad cookie yields an
// anonymous session, never an error.
func Session(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxSession, store.LoadRequest(c.Request))
		c.Next()
	}
}

// SessionFrom returns the request's session, or a fresh anonymous one when the
// Session middleware did not run.
func SessionFrom(c *gin.Context) *session.Session {
	if v, ok := c.Get(ctxSession); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	s := session.New()
	c.Set(ctxSession, s)
	return s
}

// CurrentUserFrom returns the user resolved by RequireLoggedIn, or nil.
func CurrentUserFrom(c *gin.Context) *entity.User {
	if v, ok := c.Get(ctxCurrentUser); ok {
		if u, ok := v.(*entity.User); ok {
			return u
		}
	}
	return nil
}

// RequireLoggedIn resolves the current user or stops the chain with the gate's
// redirect. Errors are left on the context for the error boundary to render.
func RequireLoggedIn(gate *application.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := gate.RequireLoggedIn(c.Request.Context(), SessionFrom(c))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Set(ctxCurrentUser, u)
		c.Set(CtxUserID, u.ID)
		c.Next()
	}
}

// RequireLoggedOut keeps signed-in users away from the login pages.
func RequireLoggedOut(gate *application.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := gate.RequireLoggedOut(c.Request.Context(), SessionFrom(c)); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Next()
	}
}
