package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/recipes-auth/internal/application"
	"github.com/oksasatya/recipes-auth/internal/domain/apperror"
	"github.com/oksasatya/recipes-auth/internal/interface/middleware"
	"github.com/oksasatya/recipes-auth/pkg/helpers"
)

type AuthHandler struct {
	Svc     *application.AuthService
	Logger  *logrus.Logger
	DevMode bool
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger, devMode bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, DevMode: devMode}
}

func meta(c *gin.Context) application.RequestMeta {
	return application.RequestMeta{IP: middleware.ClientIP(c), UserAgent: c.Request.UserAgent()}
}

// apply writes the outcome's cookie and, when set, redirects.
func apply(c *gin.Context, out application.Outcome) {
	helpers.WriteCookie(c, out.Cookie)
	if out.Location != "" {
		c.Redirect(http.StatusSeeOther, out.Location)
	}
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", page("Sign in", gin.H{"DevMode": h.DevMode}))
}

// RequestLink handles POST /login.
func (h *AuthHandler) RequestLink(c *gin.Context) {
	var form application.LoginForm
	if err := c.ShouldBind(&form); err != nil {
		h.Logger.WithError(err).Debug("login form unreadable")
		form = application.LoginForm{}
	}

	res, err := h.Svc.RequestLink(c.Request.Context(), middleware.SessionFrom(c), form, meta(c))
	var ve *apperror.ValidationError
	if errors.As(err, &ve) {
		c.HTML(http.StatusBadRequest, "login.html", page("Sign in", gin.H{
			"Email": form.Email, "Errors": ve.Fields, "DevMode": h.DevMode,
		}))
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	apply(c, res.Outcome)
	c.HTML(http.StatusOK, "check_email.html", page("Check your email", gin.H{
		"Email":         res.Email,
		"Link":          res.Link,
		"MaxAgeMinutes": int(h.Svc.Links.MaxAge().Minutes()),
	}))
}

// ValidateLink handles GET /validate-magic-link.
func (h *AuthHandler) ValidateLink(c *gin.Context) {
	res, err := h.Svc.ValidateLink(c.Request.Context(), middleware.SessionFrom(c), c.Request.URL, meta(c))
	if err != nil {
		fail(c, err)
		return
	}
	if res.NeedsSignup {
		c.HTML(http.StatusOK, "signup.html", page("Finish signing up", gin.H{
			"Email":  res.Email,
			"Action": c.Request.URL.RequestURI(),
		}))
		return
	}
	apply(c, res.Outcome)
}

// CompleteSignup handles POST /validate-magic-link.
func (h *AuthHandler) CompleteSignup(c *gin.Context) {
	// An unreadable body validates as an empty form, after the link check.
	var form application.SignupForm
	if err := c.ShouldBind(&form); err != nil {
		h.Logger.WithError(err).Debug("signup form unreadable")
		form = application.SignupForm{}
	}

	out, err := h.Svc.CompleteSignup(c.Request.Context(), middleware.SessionFrom(c), c.Request.URL, form, meta(c))
	var ve *apperror.ValidationError
	if errors.As(err, &ve) {
		c.HTML(http.StatusBadRequest, "signup.html", page("Finish signing up", gin.H{
			"Action":    c.Request.URL.RequestURI(),
			"FirstName": form.FirstName,
			"LastName":  form.LastName,
			"Errors":    ve.Fields,
		}))
		return
	}
	if err != nil {
		fail(c, err)
		return
	}
	apply(c, out)
}

// FakeLogin handles POST /fake-login. Only routed in development.
func (h *AuthHandler) FakeLogin(c *gin.Context) {
	out, err := h.Svc.FakeLogin(c.Request.Context(), middleware.SessionFrom(c), c.PostForm("email"), meta(c))
	if err != nil {
		fail(c, err)
		return
	}
	apply(c, out)
}

// Logout handles GET /logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	apply(c, h.Svc.Logout(c.Request.Context(), middleware.SessionFrom(c), meta(c)))
	c.HTML(http.StatusOK, "logged_out.html", page("Signed out", nil))
}
