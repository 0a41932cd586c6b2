package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier checks a token's signature and hands back the decoded claims.
// Decode does NOT apply claim semantics (expiry, purpose, versions) -
// that happens strictly afterwards via VerifyClaims, so a caller always
// works with a signature-verified payload first.
type Verifier interface {
	Decode(token string) (Claims, error)
}

var (
	// ErrMalformed covers wrong segment count, undecodable base64 and
	// undecodable JSON. Client error, never retryable.
	ErrMalformed = errors.New("jwtx: malformed token")

	// ErrAlgMismatch means the token header names an algorithm this
	// verifier wasn't built for.
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")

	// ErrUnknownKID means the token references a key identifier that is
	// not in the verifier's KeySet. A forged or rotated-away kid.
	ErrUnknownKID = errors.New("jwtx: unknown kid")

	// ErrInvalidSig means the signature does not verify. Deliberately
	// says nothing about which part of the token failed.
	ErrInvalidSig = errors.New("jwtx: invalid signature")

	// ErrExpired means the expiration claim check failed.
	ErrExpired = errors.New("jwtx: token expired")

	// ErrClaimMismatch is the generic equality-claim failure. Kept vague
	// on purpose: reporting which claim differed (e.g. password version)
	// would leak account state.
	ErrClaimMismatch = errors.New("jwtx: token invalid")

	// ErrMissingClaim means a required claim is absent from the payload.
	ErrMissingClaim = errors.New("jwtx: missing claim")
)

// decodeCompact parses and signature-checks a compact JWT using keyFor
// to resolve the kid header into a verification key. Claim validation is
// disabled here; the claim verification state machine runs afterwards.
func decodeCompact(tokenStr, alg string, keyFor func(kid string) (any, error)) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{alg}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != alg {
			return nil, ErrAlgMismatch
		}
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("jwtx: missing kid header: %w", ErrUnknownKID)
		}
		return keyFor(kid)
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return Claims{}, ErrMalformed
	}
	return *claims, nil
}

// mapParseError folds golang-jwt parse failures into our taxonomy.
// Anything that isn't structurally broken or key-resolution related is
// reported as a signature failure, without detail.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, ErrUnknownKID), errors.Is(err, ErrAlgMismatch):
		return err
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return ErrInvalidSig
	}
}

// HS256Verifier validates tokens signed with HMAC-SHA256.
type HS256Verifier struct {
	keys *KeySet
}

// NewVerifierHS256 creates a verifier over a KeySet of shared secrets.
func NewVerifierHS256(keys *KeySet) *HS256Verifier {
	return &HS256Verifier{keys: keys}
}

// Decode signature-checks the token and returns its claims.
func (v *HS256Verifier) Decode(tokenStr string) (Claims, error) {
	return decodeCompact(tokenStr, jwt.SigningMethodHS256.Alg(), func(kid string) (any, error) {
		key, err := v.keys.Get(kid)
		if err != nil {
			return nil, err
		}
		secret, ok := key.([]byte)
		if !ok {
			return nil, errors.New("jwtx: invalid HMAC key type")
		}
		return secret, nil
	})
}

// EdDSAVerifier validates tokens signed with Ed25519.
type EdDSAVerifier struct {
	keys *KeySet
}

// NewVerifierEdDSA creates a verifier over a KeySet of Ed25519 public keys.
func NewVerifierEdDSA(keys *KeySet) *EdDSAVerifier {
	return &EdDSAVerifier{keys: keys}
}

// Decode signature-checks the token and returns its claims.
func (v *EdDSAVerifier) Decode(tokenStr string) (Claims, error) {
	return decodeCompact(tokenStr, jwt.SigningMethodEdDSA.Alg(), func(kid string) (any, error) {
		return v.keys.Get(kid)
	})
}
