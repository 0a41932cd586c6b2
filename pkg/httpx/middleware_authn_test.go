package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubAuthenticator accepts exactly one token.
type stubAuthenticator struct {
	token    string
	identity Identity
}

func (s *stubAuthenticator) AuthenticateToken(ctx context.Context, token string) (Identity, error) {
	if token == s.token {
		return s.identity, nil
	}
	return Identity{}, errors.New("bad token")
}

func runAuthn(t *testing.T, authz string) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()

	auth := &stubAuthenticator{token: "good-token", identity: Identity{UserID: "user-1"}}

	var seen *http.Request
	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r
		w.WriteHeader(http.StatusOK)
	}), AuthnMiddleware(auth))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, seen
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestAuthnMiddleware(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		rec, seen := runAuthn(t, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, ErrCodeMissingAuthHeader, decodeErrorCode(t, rec))
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")
		require.Nil(t, seen, "handler must not run")
	})

	t.Run("wrong scheme", func(t *testing.T) {
		rec, seen := runAuthn(t, "Basic abc123")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, ErrCodeMalformedAuthHeader, decodeErrorCode(t, rec))
		require.Nil(t, seen)
	})

	t.Run("empty token", func(t *testing.T) {
		rec, seen := runAuthn(t, "Bearer ")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, ErrCodeMalformedAuthHeader, decodeErrorCode(t, rec))
		require.Nil(t, seen)
	})

	t.Run("rejected token", func(t *testing.T) {
		rec, seen := runAuthn(t, "Bearer forged-token")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Equal(t, ErrCodeUnauthorized, decodeErrorCode(t, rec))
		require.Nil(t, seen)
	})

	t.Run("accepted token attaches identity", func(t *testing.T) {
		rec, seen := runAuthn(t, "Bearer good-token")
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, seen)

		id, ok := IdentityFromContext(seen.Context())
		require.True(t, ok)
		require.Equal(t, "user-1", id.UserID)
		require.Equal(t, "user-1", UserIDFromContext(seen.Context()))
	})

	t.Run("scheme is case-insensitive", func(t *testing.T) {
		rec, _ := runAuthn(t, "bearer good-token")
		require.Equal(t, http.StatusOK, rec.Code)
	})
}
