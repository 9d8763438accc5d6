package application

import (
	"fmt"
	"net/http"

	"github.com/oksasatya/recipes-auth/pkg/session"
)

const (
	LoginPath = "/login"
	HomePath  = "/app"
)

// Outcome is what a session-changing operation hands back to the HTTP layer: the
// cookie that carries the new session state and, when set, where to redirect.
type Outcome struct {
	Location string
	Cookie   *http.Cookie
}

// commit persists sess. An operation that changed the session has no way to report
// success other than through the Outcome this returns.
func commit(store *session.Store, sess *session.Session, location string) (Outcome, error) {
	c, err := store.Persist(sess)
	if err != nil {
		return Outcome{}, fmt.Errorf("persist session: %w", err)
	}
	return Outcome{Location: location, Cookie: c}, nil
}
