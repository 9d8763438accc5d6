// Package apperror is the closed set of domain errors that the HTTP boundary knows
// how to render. Match them with errors.As.
package apperror

import (
	"fmt"
	"sort"
	"strings"
)

// NotFoundError means a requested resource does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// UnauthorizedError means the request carries no usable identity.
type UnauthorizedError struct{}

func (e *UnauthorizedError) Error() string { return "unauthorized" }

// ForbiddenError means the caller is known but may not act on the resource.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string { return "forbidden: " + e.Reason }

// Magic link rejection reasons, in the order they are checked.
const (
	ReasonMissingToken = "parameter absent"
	ReasonMalformed    = "malformed/tampered token"
	ReasonBadShape     = "invalid payload shape"
	ReasonExpired      = "expired"
	ReasonNonce        = "nonce mismatch"
)

// InvalidLinkError rejects a magic link. Reason is for logs only and must not reach
// the client.
type InvalidLinkError struct {
	Reason string
}

func (e *InvalidLinkError) Error() string { return "invalid magic link: " + e.Reason }

// ValidationError carries field-level messages for re-rendering a form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

// RedirectError is a control-flow signal: the boundary answers with a redirect to
// Location instead of a page.
type RedirectError struct {
	Location string
}

func (e *RedirectError) Error() string { return "redirect to " + e.Location }
