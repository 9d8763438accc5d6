package application

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/recipes-auth/internal/domain/apperror"
	"github.com/oksasatya/recipes-auth/internal/domain/entity"
	"github.com/oksasatya/recipes-auth/pkg/session"
	"github.com/oksasatya/recipes-auth/pkg/tokencodec"
)

const (
	// MagicParam is the query parameter carrying the encrypted token.
	MagicParam        = "magic"
	ValidatePath      = "/validate-magic-link"
	DefaultLinkMaxAge = 10 * time.Minute
	createdAtLayout   = time.RFC3339Nano
)

// IssuedLink is a freshly minted magic link. Nonce must be stored in the requesting
// browser's session or the link will never verify.
type IssuedLink struct {
	URL   string
	Nonce string
}

// MagicLinks mints and checks magic links. It holds no per-link state: everything a
// link needs travels inside its token or in the session.
type MagicLinks struct {
	codec  *tokencodec.Codec
	origin string
	maxAge time.Duration
	now    func() time.Time
}

func NewMagicLinks(codec *tokencodec.Codec, origin string, maxAge time.Duration) *MagicLinks {
	if maxAge <= 0 {
		maxAge = DefaultLinkMaxAge
	}
	return &MagicLinks{codec: codec, origin: origin, maxAge: maxAge, now: time.Now}
}

// WithClock replaces the time source.
func (m *MagicLinks) WithClock(now func() time.Time) *MagicLinks {
	m.now = now
	return m
}

// MaxAge is how long an issued link stays valid.
func (m *MagicLinks) MaxAge() time.Duration { return m.maxAge }

// Issue creates a link for email. Email is not checked against existing users.
func (m *MagicLinks) Issue(email string) (IssuedLink, error) {
	nonce := uuid.NewString()
	token, err := m.codec.Encode(map[string]string{
		"email":     email,
		"nonce":     nonce,
		"createdAt": m.now().UTC().Format(createdAtLayout),
	})
	if err != nil {
		return IssuedLink{}, fmt.Errorf("issue magic link: %w", err)
	}
	q := url.Values{MagicParam: []string{token}}
	return IssuedLink{URL: m.origin + ValidatePath + "?" + q.Encode(), Nonce: nonce}, nil
}

// Verify checks the link found in u against the session. Every rejection is an
// *apperror.InvalidLinkError; the checks run in a fixed order and the first failure
// wins. Verify never mutates the session.
func (m *MagicLinks) Verify(u *url.URL, sess *session.Session) (entity.MagicLinkPayload, error) {
	token := ""
	if u != nil {
		token = u.Query().Get(MagicParam)
	}
	if token == "" {
		return entity.MagicLinkPayload{}, invalid(apperror.ReasonMissingToken)
	}

	raw, err := m.codec.Decode(token)
	if err != nil {
		return entity.MagicLinkPayload{}, invalid(apperror.ReasonMalformed)
	}

	payload, ok := parsePayload(raw)
	if !ok {
		return entity.MagicLinkPayload{}, invalid(apperror.ReasonBadShape)
	}

	if m.now().After(payload.CreatedAt.Add(m.maxAge)) {
		return entity.MagicLinkPayload{}, invalid(apperror.ReasonExpired)
	}

	want, ok := sess.Get(session.KeyNonce)
	if !ok || subtle.ConstantTimeCompare([]byte(want), []byte(payload.Nonce)) != 1 {
		return entity.MagicLinkPayload{}, invalid(apperror.ReasonNonce)
	}
	return payload, nil
}

// parsePayload requires email, nonce and createdAt to be present as strings and
// createdAt to be an RFC 3339 timestamp.
func parsePayload(raw json.RawMessage) (entity.MagicLinkPayload, bool) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return entity.MagicLinkPayload{}, false
	}
	email, ok1 := fields["email"].(string)
	nonce, ok2 := fields["nonce"].(string)
	created, ok3 := fields["createdAt"].(string)
	if !ok1 || !ok2 || !ok3 {
		return entity.MagicLinkPayload{}, false
	}
	at, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return entity.MagicLinkPayload{}, false
	}
	return entity.MagicLinkPayload{Email: email, Nonce: nonce, CreatedAt: at}, true
}

func invalid(reason string) error {
	return &apperror.InvalidLinkError{Reason: reason}
}
