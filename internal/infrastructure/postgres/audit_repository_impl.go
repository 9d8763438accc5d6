package postgres

import (
	"context"
	"encoding/json"

	"github.com/oksasatya/recipes-auth/internal/domain/entity"
	"github.com/oksasatya/recipes-auth/internal/domain/repository"
)

type AuditRepository struct {
	db DBTX
}

func NewAuditRepository(db DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

// Record inserts one audit row. Empty strings are stored as NULL.
func (r *AuditRepository) Record(ctx context.Context, ev entity.AuditEvent) error {
	md := ev.Metadata
	if md == nil {
		md = map[string]any{}
	}
	b, err := json.Marshal(md)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO auth_audit_logs (user_id, email, action, ip, user_agent, metadata)
		VALUES (NULLIF($1, '')::uuid, NULLIF($2, ''), $3, NULLIF($4, ''), NULLIF($5, ''), $6)
	`, ev.UserID, ev.Email, ev.Action, ev.IP, ev.UserAgent, b)
	return err
}

var _ repository.AuditRepository = (*AuditRepository)(nil)
