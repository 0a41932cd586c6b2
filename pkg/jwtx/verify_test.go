package jwtx_test

import (
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/keychain/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestExpiryVerifier(t *testing.T) {
	now := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	v := jwtx.ExpiryVerifier{}

	require.Equal(t, "exp", v.Claim())

	t.Run("exp equal to now fails", func(t *testing.T) {
		c := jwtx.NewClaims("42", "access", 0, "keychain", now)
		err := v.Verify(c, now)
		require.ErrorIs(t, err, jwtx.ErrExpired)

		var claimErr *jwtx.ClaimError
		require.ErrorAs(t, err, &claimErr)
		require.Equal(t, "exp", claimErr.Claim)
	})

	t.Run("exp one second ahead passes", func(t *testing.T) {
		c := jwtx.NewClaims("42", "access", time.Second, "keychain", now)
		require.NoError(t, v.Verify(c, now))
	})

	t.Run("exp in the past fails", func(t *testing.T) {
		c := jwtx.NewClaims("42", "access", time.Minute, "keychain", now)
		require.ErrorIs(t, v.Verify(c, now.Add(time.Hour)), jwtx.ErrExpired)
	})

	t.Run("missing exp fails", func(t *testing.T) {
		var c jwtx.Claims
		require.ErrorIs(t, v.Verify(c, now), jwtx.ErrMissingClaim)
	})
}

func TestEqualityVerifier(t *testing.T) {
	now := time.Now().UTC()
	c := jwtx.NewClaims("42", "reset", time.Minute, "keychain", now).
		WithPasswordVersion("v1")

	t.Run("matching value passes", func(t *testing.T) {
		v := jwtx.EqualityVerifier{Name: jwtx.ClaimPasswordVersion, Want: "v1"}
		require.NoError(t, v.Verify(c, now))
	})

	t.Run("stale value fails generically", func(t *testing.T) {
		v := jwtx.EqualityVerifier{Name: jwtx.ClaimPasswordVersion, Want: "v2"}
		err := v.Verify(c, now)
		require.ErrorIs(t, err, jwtx.ErrClaimMismatch)

		// The failure must not name the claim.
		var claimErr *jwtx.ClaimError
		require.False(t, errors.As(err, &claimErr))
	})

	t.Run("purpose mismatch fails", func(t *testing.T) {
		v := jwtx.EqualityVerifier{Name: jwtx.ClaimPurpose, Want: "access"}
		require.ErrorIs(t, v.Verify(c, now), jwtx.ErrClaimMismatch)
	})
}

func TestVerifyClaims(t *testing.T) {
	now := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	c := jwtx.NewClaims("42", "access", 5*time.Minute, "keychain", now)

	t.Run("all verifiers pass", func(t *testing.T) {
		err := jwtx.VerifyClaims(c, now,
			jwtx.ExpiryVerifier{},
			jwtx.EqualityVerifier{Name: jwtx.ClaimPurpose, Want: "access"},
		)
		require.NoError(t, err)
	})

	t.Run("first failure short-circuits", func(t *testing.T) {
		err := jwtx.VerifyClaims(c, now.Add(time.Hour),
			jwtx.ExpiryVerifier{},
			jwtx.EqualityVerifier{Name: jwtx.ClaimPurpose, Want: "reset"},
		)
		// Expiry runs first, so we must see the expiry failure, not the
		// purpose mismatch.
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("no verifiers means success", func(t *testing.T) {
		require.NoError(t, jwtx.VerifyClaims(c, now))
	})
}
