package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const DefaultCookieName = "recipes__session"

// Options configures a Store.
type Options struct {
	CookieName string
	// Secrets[0] signs outgoing cookies; all secrets are tried for verification.
	Secrets []string
	TTL     time.Duration
	Secure  bool
	Domain  string
	Path    string
	// Now overrides the clock, mainly for tests.
	Now func() time.Time
}

// Store loads, persists and destroys session cookies.
type Store struct {
	name    string
	secrets [][]byte
	ttl     time.Duration
	secure  bool
	domain  string
	path    string
	now     func() time.Time
}

type claims struct {
	Values map[string]string `json:"v"`
	jwt.RegisteredClaims
}

func NewStore(opts Options) (*Store, error) {
	if len(opts.Secrets) == 0 {
		return nil, errors.New("session: at least one secret is required")
	}
	s := &Store{
		name:   opts.CookieName,
		ttl:    opts.TTL,
		secure: opts.Secure,
		domain: opts.Domain,
		path:   opts.Path,
		now:    opts.Now,
	}
	for _, sec := range opts.Secrets {
		if sec == "" {
			return nil, errors.New("session: empty secret")
		}
		s.secrets = append(s.secrets, []byte(sec))
	}
	if s.name == "" {
		s.name = DefaultCookieName
	}
	if s.ttl <= 0 {
		s.ttl = 30 * 24 * time.Hour
	}
	if s.path == "" {
		s.path = "/"
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// CookieName returns the name of the session cookie.
func (s *Store) CookieName() string { return s.name }

// Load decodes the session cookie found in a raw Cookie header. A missing, forged,
// expired or unparsable cookie yields a fresh anonymous session.
func (s *Store) Load(cookieHeader string) *Session {
	if cookieHeader == "" {
		return New()
	}
	r := &http.Request{Header: http.Header{"Cookie": []string{cookieHeader}}}
	return s.LoadRequest(r)
}

// LoadRequest is Load for an incoming request.
func (s *Store) LoadRequest(r *http.Request) *Session {
	c, err := r.Cookie(s.name)
	if err != nil || c.Value == "" {
		return New()
	}
	values, ok := s.verify(c.Value)
	if !ok {
		return New()
	}
	return &Session{values: values}
}

func (s *Store) verify(token string) (map[string]string, bool) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	for _, secret := range s.secrets {
		cl := &claims{}
		tkn, err := parser.ParseWithClaims(token, cl, func(*jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil || !tkn.Valid {
			continue
		}
		if cl.Values == nil {
			cl.Values = map[string]string{}
		}
		return cl.Values, true
	}
	return nil, false
}

// Persist signs the session and returns the cookie to attach to the response.
// Mutations are lost unless the returned cookie reaches the browser.
func (s *Store) Persist(sess *Session) (*http.Cookie, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		Values: sess.Values(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := tkn.SignedString(s.secrets[0])
	if err != nil {
		return nil, fmt.Errorf("session: sign: %w", err)
	}
	sess.fresh = false
	return s.cookie(signed, int(s.ttl.Seconds()), exp), nil
}

// Destroy returns a cookie that makes the browser drop the session.
func (s *Store) Destroy() *http.Cookie {
	return s.cookie("", -1, time.Unix(0, 0))
}

func (s *Store) cookie(value string, maxAge int, exp time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     s.name,
		Value:    value,
		Path:     s.path,
		Domain:   s.domain,
		Expires:  exp.UTC(),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
