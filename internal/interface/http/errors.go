package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipes-auth/internal/domain/apperror"
	"github.com/oksasatya/recipes-auth/pkg/helpers"
	"github.com/oksasatya/recipes-auth/pkg/response"
)

// ErrorBoundary renders the last error a handler or middleware left on the context,
// unless a response was already written.
func ErrorBoundary(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		writeError(c, logger, c.Errors.Last().Err)
	}
}

// fail hands err to the boundary and stops the chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func isAPI(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

// writeError maps the closed set of domain errors to responses. Nothing from the
// error message reaches the client.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var (
		redirect   *apperror.RedirectError
		invalid    *apperror.InvalidLinkError
		validation *apperror.ValidationError
		notFound   *apperror.NotFoundError
		forbidden  *apperror.ForbiddenError
		unauth     *apperror.UnauthorizedError
	)

	switch {
	case errors.As(err, &redirect):
		if isAPI(c) {
			respond(c, http.StatusUnauthorized, "Unauthorized", "Sign in to continue.", nil)
			return
		}
		c.Redirect(http.StatusSeeOther, redirect.Location)
	case errors.As(err, &invalid):
		if isAPI(c) {
			respond(c, http.StatusBadRequest, "Invalid link", "invalid link", nil)
			return
		}
		c.HTML(http.StatusBadRequest, "invalid_link.html", page("Invalid link", nil))
	case errors.As(err, &validation):
		respond(c, http.StatusBadRequest, "Check your input", "Some fields are invalid.", validation.Fields)
	case errors.As(err, &notFound):
		respond(c, http.StatusNotFound, "Not found", "We could not find that.", nil)
	case errors.As(err, &forbidden):
		respond(c, http.StatusForbidden, "Forbidden", "You are not allowed to do that.", nil)
	case errors.As(err, &unauth):
		respond(c, http.StatusUnauthorized, "Unauthorized", "Sign in to continue.", nil)
	default:
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		})
		respond(c, http.StatusInternalServerError, "Something went wrong", "Please try again later.", nil)
	}
}

func respond(c *gin.Context, status int, title, message string, details map[string]string) {
	if isAPI(c) {
		var payload any
		if details != nil {
			payload = details
		}
		response.Error[any](c, status, message, payload)
		return
	}
	c.HTML(status, "error.html", page(title, gin.H{"Message": message, "Errors": details}))
}
