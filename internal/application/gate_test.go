package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/recipes-auth/internal/domain/apperror"
	"github.com/oksasatya/recipes-auth/internal/domain/entity"
	"github.com/oksasatya/recipes-auth/internal/domain/repository"
	"github.com/oksasatya/recipes-auth/internal/infrastructure/memory"
	"github.com/oksasatya/recipes-auth/pkg/session"
)

type brokenUsers struct{ repository.UserRepository }

func (brokenUsers) FindByID(context.Context, string) (*entity.User, error) {
	return nil, errors.New("connection refused")
}

func redirectTo(t *testing.T, err error) string {
	t.Helper()
	var re *apperror.RedirectError
	require.True(t, errors.As(err, &re), "want RedirectError, got %v", err)
	return re.Location
}

func TestGate(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	gate := NewGate(users)
	ana, err := users.Create(ctx, "ana@example.com", "Ana", "Lopez")
	require.NoError(t, err)
	gone, err := users.Create(ctx, "gone@example.com", "Gone", "User")
	require.NoError(t, err)
	users.Delete(gone.ID)

	loggedIn := session.New()
	loggedIn.Set(session.KeyUserID, ana.ID)
	stale := session.New()
	stale.Set(session.KeyUserID, gone.ID)

	t.Run("anonymous", func(t *testing.T) {
		u, err := gate.CurrentUser(ctx, session.New())
		require.NoError(t, err)
		assert.Nil(t, u)

		_, err = gate.RequireLoggedIn(ctx, session.New())
		assert.Equal(t, LoginPath, redirectTo(t, err))
		assert.NoError(t, gate.RequireLoggedOut(ctx, session.New()))
	})

	t.Run("logged in", func(t *testing.T) {
		u, err := gate.RequireLoggedIn(ctx, loggedIn)
		require.NoError(t, err)
		assert.Equal(t, ana.ID, u.ID)
		assert.Equal(t, HomePath, redirectTo(t, gate.RequireLoggedOut(ctx, loggedIn)))
	})

	t.Run("stale user id", func(t *testing.T) {
		u, err := gate.CurrentUser(ctx, stale)
		require.NoError(t, err)
		assert.Nil(t, u)
		_, err = gate.RequireLoggedIn(ctx, stale)
		assert.Equal(t, LoginPath, redirectTo(t, err))
	})

	t.Run("lookup failure is not a redirect", func(t *testing.T) {
		g := NewGate(brokenUsers{})
		_, err := g.RequireLoggedIn(ctx, loggedIn)
		require.Error(t, err)
		var re *apperror.RedirectError
		assert.False(t, errors.As(err, &re))
	})
}

func TestGate_GarbageCookie(t *testing.T) {
	store, err := session.NewStore(session.Options{Secrets: []string{"s"}})
	require.NoError(t, err)

	var sess *session.Session
	assert.NotPanics(t, func() { sess = store.Load("recipes__session=\x00\x01garbage;;;=") })

	_, err = NewGate(memory.NewUserRepository()).RequireLoggedIn(context.Background(), sess)
	assert.Equal(t, LoginPath, redirectTo(t, err))
}

func TestRequireOwner(t *testing.T) {
	ana := &entity.User{ID: "u-1"}

	assert.NoError(t, RequireOwner("u-1", ana))

	var fe *apperror.ForbiddenError
	assert.True(t, errors.As(RequireOwner("u-2", ana), &fe))
	assert.True(t, errors.As(RequireOwner("", ana), &fe))

	var ue *apperror.UnauthorizedError
	assert.True(t, errors.As(RequireOwner("u-1", nil), &ue))
}
