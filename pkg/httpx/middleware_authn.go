package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/keychain/pkg/slogx"
)

// TokenAuthenticator turns a raw bearer token into an authenticated
// identity. The keychain service implements this; the middleware only
// cares about header mechanics and error translation.
type TokenAuthenticator interface {
	AuthenticateToken(ctx context.Context, token string) (Identity, error)
}

// Bearer error codes returned to clients. Each rejection reason has a
// stable code; the middleware never echoes internal error detail.
const (
	ErrCodeMissingAuthHeader   = "missing_authorization_header"
	ErrCodeMalformedAuthHeader = "malformed_authorization_header"
	ErrCodeUnauthorized        = "unauthorized"
)

// AuthnMiddleware gates a route behind bearer-token authentication.
//
// Terminal states per request: authenticated (identity in context, next
// handler runs) or rejected (401, chain stops). Failures are never
// swallowed and never retried here.
func AuthnMiddleware(auth TokenAuthenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" {
				writeBearerError(w, ErrCodeMissingAuthHeader)
				return
			}

			scheme, raw, found := strings.Cut(authz, " ")
			raw = strings.TrimSpace(raw)
			if !found || !strings.EqualFold(scheme, "Bearer") || raw == "" {
				writeBearerError(w, ErrCodeMalformedAuthHeader)
				return
			}

			id, err := auth.AuthenticateToken(ctx, raw)
			if err != nil {
				// Decode, signature, claim and user-lookup failures all
				// collapse into one generic rejection on the wire.
				log.Warn("bearer token rejected", "err", err)
				writeBearerError(w, ErrCodeUnauthorized)
				return
			}

			// Populate the per-request identity cache for downstream
			// handlers, then continue the chain.
			ctx = WithIdentity(ctx, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, code string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+code+`"`)
	WriteError(w, http.StatusUnauthorized, code, "authentication required")
}
