// Package session keeps a small per-browser key/value bag in a signed cookie.
//
// The server holds no session state: the bag travels as an HS256-signed JWT in one
// HttpOnly cookie. Outgoing cookies are signed with the first configured secret and
// incoming ones are verified against every secret in order, so a secret can be rotated
// by prepending the new one and keeping the old one as a fallback verifier.
//
// Mutations only live in memory until Store.Persist turns the session into a
// Set-Cookie value that the caller attaches to the response.
package session

// Well-known keys.
const (
	KeyUserID = "userId"
	KeyNonce  = "nonce"
)

// Session is the decoded bag for one request. It is not safe for concurrent use;
// each request owns its own copy.
type Session struct {
	values map[string]string
	fresh  bool
}

// New returns an empty anonymous session.
func New() *Session {
	return &Session{values: map[string]string{}, fresh: true}
}

func (s *Session) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *Session) Set(key, value string) {
	s.values[key] = value
}

func (s *Session) Unset(key string) {
	delete(s.values, key)
}

// UserID returns the authenticated user id or "" for an anonymous session.
func (s *Session) UserID() string {
	return s.values[KeyUserID]
}

// IsNew reports whether the session was created for this request rather than
// decoded from a valid cookie.
func (s *Session) IsNew() bool { return s.fresh }

// Values returns a copy of the bag.
func (s *Session) Values() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
