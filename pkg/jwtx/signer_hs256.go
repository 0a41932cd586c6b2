package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// MinHS256SecretSize is the smallest secret we accept for HMAC signing.
// RFC 7518 wants the key to be at least as long as the hash output.
const MinHS256SecretSize = 32

// HS256Signer implements the Signer interface using HMAC-SHA256 with a
// shared symmetric secret.
type HS256Signer struct {
	kid    string
	secret []byte
	alg    string
}

func newHS256Signer(kid string, secret []byte) (*HS256Signer, error) {
	if kid == "" {
		return nil, errors.New("jwtx: empty kid")
	}
	if len(secret) == 0 {
		return nil, errors.New("jwtx: empty HMAC secret")
	}

	// Copy so a caller mutating its slice can't rotate us by accident.
	own := make([]byte, len(secret))
	copy(own, secret)

	return &HS256Signer{
		kid:    kid,
		secret: own,
		alg:    jwt.SigningMethodHS256.Alg(),
	}, nil
}

func (s *HS256Signer) Alg() string { return s.alg }
func (s *HS256Signer) KID() string { return s.kid }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.secret)
}

// VerificationKey returns the shared secret for KeySet registration.
// HMAC is symmetric, the signing key is the verification key.
func (s *HS256Signer) VerificationKey() []byte {
	own := make([]byte, len(s.secret))
	copy(own, s.secret)
	return own
}

// Validate does a quick sanity check on the key material.
func (s *HS256Signer) Validate() error {
	if len(s.secret) < MinHS256SecretSize {
		return errors.New("jwtx: HMAC secret shorter than 32 bytes")
	}
	return nil
}
