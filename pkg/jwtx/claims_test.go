package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/keychain/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestNewClaims(t *testing.T) {
	now := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	c := jwtx.NewClaims("42", "access", 300*time.Second, "keychain", now)

	require.Equal(t, "42", c.Subject)
	require.Equal(t, "access", c.Purpose)
	require.Equal(t, "keychain", c.Issuer)
	require.Equal(t, int64(1609459500), c.ExpiresAt.Unix())
	require.Equal(t, now.Unix(), c.IssuedAt.Unix())
	require.NotEmpty(t, c.ID)

	t.Run("jti is unique per token", func(t *testing.T) {
		other := jwtx.NewClaims("42", "access", 300*time.Second, "keychain", now)
		require.NotEqual(t, c.ID, other.ID)
	})

	t.Run("password version starts empty", func(t *testing.T) {
		require.Empty(t, c.PasswordVersion)
	})
}

func TestWithPasswordVersion(t *testing.T) {
	now := time.Now().UTC()
	c := jwtx.NewClaims("42", "reset", time.Minute, "keychain", now)

	stamped := c.WithPasswordVersion("v1")
	require.Equal(t, "v1", stamped.PasswordVersion)

	// Original is untouched, Claims are values.
	require.Empty(t, c.PasswordVersion)
}

func TestStringClaim(t *testing.T) {
	now := time.Now().UTC()
	c := jwtx.NewClaims("42", "reset", time.Minute, "keychain", now).
		WithPasswordVersion("v1")

	require.Equal(t, "42", c.StringClaim(jwtx.ClaimSubject))
	require.Equal(t, "keychain", c.StringClaim(jwtx.ClaimIssuer))
	require.Equal(t, "reset", c.StringClaim(jwtx.ClaimPurpose))
	require.Equal(t, "v1", c.StringClaim(jwtx.ClaimPasswordVersion))

	t.Run("unknown claim name", func(t *testing.T) {
		require.Empty(t, c.StringClaim("nope"))
	})
}
