package entity

import "time"

// MagicLinkPayload is what a magic link carries inside its encrypted token.
// It is never stored server side.
type MagicLinkPayload struct {
	Email     string    `json:"email"`
	Nonce     string    `json:"nonce"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuditEvent is one row of the authentication audit trail.
type AuditEvent struct {
	UserID    string
	Email     string
	Action    string
	IP        string
	UserAgent string
	Metadata  map[string]any
}

// Audit actions.
const (
	AuditMagicLinkIssued  = "magic_link_issued"
	AuditMagicLinkInvalid = "magic_link_invalid"
	AuditLogin            = "login"
	AuditSignup           = "signup"
	AuditLogout           = "logout"
)
