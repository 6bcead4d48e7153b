// Package identity supplies the authenticated user identity the cart core
// requires. Authentication itself is owned by the upstream auth service; the
// edge only verifies the bearer token it issued and treats the resulting
// identity as an opaque precondition.
package identity

import "context"

// Identity is the authenticated user attached to a request.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// IsZero reports whether no identity is present.
func (id Identity) IsZero() bool {
	return id.UserID == ""
}

type contextKey struct{}

// NewContext returns a context carrying the identity.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext extracts the identity from the context. The second return is
// false when no identity was attached (unauthenticated request).
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok && !id.IsZero()
}
