package httpx

import (
	"context"

	"github.com/aussiebroadwan/keychain/pkg/jwtx"
)

type ctxKey struct{}

// Identity is the authenticated caller attached to the request context.
// It doubles as the request-bound cache: the middleware populates it at
// most once per request, and every downstream handler reads it instead
// of re-parsing the token or re-querying the user.
type Identity struct {
	// UserID is the resolved subject claim.
	UserID string

	// Claims is the decoded, fully verified token payload.
	Claims jwtx.Claims

	// User is the resolved user object (internal/keychain/domain.User in
	// the keychain service; kept as any to avoid the import).
	User any
}

// WithIdentity attaches the authenticated identity to ctx. Owned by the
// request; discarded with it.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFromContext returns the identity set by the authentication
// middleware, or ok=false on unauthenticated requests.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// UserIDFromContext is a convenience accessor for the resolved user id.
func UserIDFromContext(ctx context.Context) string {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return ""
	}
	return id.UserID
}
