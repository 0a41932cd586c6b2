package jwtx

import (
	"crypto/subtle"
	"fmt"
	"time"
)

// ClaimVerifier applies one claim's semantic check against a decoded,
// signature-verified payload. Verification is a pure function of the
// payload, the current time, and comparison data captured at
// construction; it is re-run from scratch on every call.
type ClaimVerifier interface {
	// Claim returns the unique payload key this verifier covers.
	Claim() string

	// Verify returns nil on success or a typed failure.
	Verify(c Claims, now time.Time) error
}

// ClaimError reports which claim failed semantic verification. Only
// produced for claims that are safe to name (expiry); equality claims
// fail with the bare generic ErrClaimMismatch instead.
type ClaimError struct {
	Claim string
	Err   error
}

func (e *ClaimError) Error() string {
	return fmt.Sprintf("jwtx: claim %q verification failed: %v", e.Claim, e.Err)
}

func (e *ClaimError) Unwrap() error { return e.Err }

// VerifyClaims runs each verifier in order and short-circuits on the
// first failure. The overall check is a logical AND; success means every
// required claim held at instant now.
func VerifyClaims(c Claims, now time.Time, verifiers ...ClaimVerifier) error {
	for _, v := range verifiers {
		if err := v.Verify(c, now); err != nil {
			return err
		}
	}
	return nil
}

// ExpiryVerifier checks the "exp" claim. A token is expired the instant
// the clock reaches its expiration: exp == now fails, exp == now+1s
// passes at now.
type ExpiryVerifier struct{}

func (ExpiryVerifier) Claim() string { return ClaimExpiry }

func (ExpiryVerifier) Verify(c Claims, now time.Time) error {
	if c.ExpiresAt == nil {
		return &ClaimError{Claim: ClaimExpiry, Err: ErrMissingClaim}
	}
	if !now.Before(c.ExpiresAt.Time) {
		return &ClaimError{Claim: ClaimExpiry, Err: ErrExpired}
	}
	return nil
}

// EqualityVerifier checks that a named string claim exactly matches a
// value reconstructed at verification time (token purpose, password
// version). Failures are reported generically - naming the claim would
// tell a caller more about account state than they should learn.
type EqualityVerifier struct {
	Name string
	Want string
}

func (v EqualityVerifier) Claim() string { return v.Name }

func (v EqualityVerifier) Verify(c Claims, _ time.Time) error {
	got := c.StringClaim(v.Name)
	if subtle.ConstantTimeCompare([]byte(got), []byte(v.Want)) != 1 {
		return ErrClaimMismatch
	}
	return nil
}
