package memory

import (
	"context"
	"sync"

	"github.com/oksasatya/recipes-auth/internal/domain/entity"
	"github.com/oksasatya/recipes-auth/internal/domain/repository"
)

// AuditRepository keeps audit events in a slice.
type AuditRepository struct {
	mu     sync.Mutex
	events []entity.AuditEvent
}

func NewAuditRepository() *AuditRepository { return &AuditRepository{} }

func (r *AuditRepository) Record(_ context.Context, ev entity.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

// Actions returns the recorded actions in order.
func (r *AuditRepository) Actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Action)
	}
	return out
}

// Events returns a copy of everything recorded.
func (r *AuditRepository) Events() []entity.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.AuditEvent(nil), r.events...)
}

var _ repository.AuditRepository = (*AuditRepository)(nil)
