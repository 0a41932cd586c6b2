package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Registered claim names used across the keychain. Each claim has exactly
// one name; these are the payload keys on the wire.
const (
	ClaimSubject         = "sub"
	ClaimExpiry          = "exp"
	ClaimIssuer          = "iss"
	ClaimPurpose         = "prp"
	ClaimPasswordVersion = "pwv"
)

// Default token TTLs. Services override these per purpose.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	// Short-lived for security - typical range is 5m to 1h.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	// Longer-lived for user convenience - typical range is 7d to 30d.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour

	// DefaultResetTokenTTL is the default lifetime for password-reset
	// tokens. Long enough to read an email, short enough to limit abuse.
	DefaultResetTokenTTL = 30 * time.Minute
)

// Claims is the decoded token payload. Every keychain token carries the
// registered set (sub/exp/iat/iss/jti) plus a purpose claim; reset tokens
// additionally snapshot the user's password-version marker so a password
// change invalidates tokens issued before it.
type Claims struct {
	jwt.RegisteredClaims

	// Purpose names the token kind this payload was issued under
	// (access, refresh, reset). Verified by equality at decode time so a
	// token minted for one purpose never authenticates under another.
	Purpose string `json:"prp,omitempty"`

	// PasswordVersion is an opaque marker snapshotted at issuance time.
	// Reset tokens only.
	PasswordVersion string `json:"pwv,omitempty"`
}

// NewClaims builds a minimally-correct claim set for the given subject
// and purpose, expiring ttl after now.
func NewClaims(subject, purpose string, ttl time.Duration, issuer string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Purpose: purpose,
	}
}

// WithPasswordVersion returns a copy of c carrying the password-version
// marker. Used when minting reset tokens.
func (c Claims) WithPasswordVersion(version string) Claims {
	c.PasswordVersion = version
	return c
}

// StringClaim returns the named string-valued claim, or "" if the claim
// is absent. This is the typed accessor equality verifiers go through,
// so malformed payloads fail at the boundary instead of deep in a flow.
func (c Claims) StringClaim(name string) string {
	switch name {
	case ClaimSubject:
		return c.Subject
	case ClaimIssuer:
		return c.Issuer
	case ClaimPurpose:
		return c.Purpose
	case ClaimPasswordVersion:
		return c.PasswordVersion
	default:
		return ""
	}
}

// NewJTI returns a unique identifier for the "jti" claim.
func NewJTI() string {
	return uuid.NewString()
}
