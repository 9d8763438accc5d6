// Package memory holds in-process repository implementations for tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/recipes-auth/internal/domain/entity"
	"github.com/oksasatya/recipes-auth/internal/domain/repository"
)

type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*entity.User
	byEmail map[string]string
	now     func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    map[string]*entity.User{},
		byEmail: map[string]string{},
		now:     time.Now,
	}
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u := *r.byID[id]
	return &u, nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepository) Create(_ context.Context, email, firstName, lastName string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[email]; ok {
		return nil, repository.ErrDuplicateEmail
	}
	now := r.now().UTC()
	u := &entity.User{
		ID:        uuid.NewString(),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.byID[u.ID] = u
	r.byEmail[email] = u.ID
	cp := *u
	return &cp, nil
}

// Delete removes a user; sessions still pointing at it become stale.
func (r *UserRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		delete(r.byEmail, u.Email)
		delete(r.byID, id)
	}
}

func (r *UserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

var _ repository.UserRepository = (*UserRepository)(nil)
