package application

import (
	"context"
	"errors"

	"github.com/oksasatya/recipes-auth/internal/domain/apperror"
	"github.com/oksasatya/recipes-auth/internal/domain/entity"
	repo "github.com/oksasatya/recipes-auth/internal/domain/repository"
	"github.com/oksasatya/recipes-auth/pkg/session"
)

// Gate resolves the session to a user and enforces the logged-in / logged-out
// requirements of a page.
type Gate struct {
	Users repo.UserRepository
}

func NewGate(users repo.UserRepository) *Gate {
	return &Gate{Users: users}
}

// CurrentUser returns nil when the session is anonymous or points at a user that no
// longer exists.
func (g *Gate) CurrentUser(ctx context.Context, sess *session.Session) (*entity.User, error) {
	id := sess.UserID()
	if id == "" {
		return nil, nil
	}
	u, err := g.Users.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// RequireLoggedIn returns the current user or a redirect to the login page.
func (g *Gate) RequireLoggedIn(ctx context.Context, sess *session.Session) (*entity.User, error) {
	u, err := g.CurrentUser(ctx, sess)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, &apperror.RedirectError{Location: LoginPath}
	}
	return u, nil
}

// RequireLoggedOut redirects signed-in users to the home page.
func (g *Gate) RequireLoggedOut(ctx context.Context, sess *session.Session) error {
	u, err := g.CurrentUser(ctx, sess)
	if err != nil {
		return err
	}
	if u != nil {
		return &apperror.RedirectError{Location: HomePath}
	}
	return nil
}
