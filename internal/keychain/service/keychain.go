package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/keychain/internal/keychain/domain"
	"github.com/aussiebroadwan/keychain/internal/keychain/store"
	"github.com/aussiebroadwan/keychain/pkg/cryptox"
	"github.com/aussiebroadwan/keychain/pkg/httpx"
	"github.com/aussiebroadwan/keychain/pkg/jwtx"
)

// Purpose names a token family. Each purpose gets its own signer, key
// set and lifetime, so an access token can never pass where a reset
// token is expected and vice versa.
type Purpose string

const (
	PurposeAccess  Purpose = "access"
	PurposeRefresh Purpose = "refresh"
	PurposeReset   Purpose = "reset"
)

var (
	ErrUnknownPurpose = errors.New("keychain: unknown token purpose")
	ErrInvalidToken   = errors.New("invalid_token")
)

// TokenConfig bundles everything needed to mint and check one purpose
// of token.
type TokenConfig struct {
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	TTL      time.Duration
}

// Keychain is the purpose-keyed token registry. It is assembled once at
// boot and read-only afterwards, so lookups need no locking.
type Keychain struct {
	Store  store.Store
	Issuer string
	Clock  jwtx.Clock

	configs map[Purpose]TokenConfig
}

// NewKeychain validates every signer up front so a misconfigured key
// fails the boot rather than the first request.
func NewKeychain(st store.Store, issuer string, clock jwtx.Clock, configs map[Purpose]TokenConfig) (*Keychain, error) {
	if clock == nil {
		clock = jwtx.SystemClock{}
	}
	if len(configs) == 0 {
		return nil, errors.New("keychain: no token purposes configured")
	}

	for purpose, cfg := range configs {
		if cfg.Signer == nil || cfg.Verifier == nil {
			return nil, fmt.Errorf("keychain: purpose %q missing signer or verifier", purpose)
		}
		if cfg.TTL <= 0 {
			return nil, fmt.Errorf("keychain: purpose %q has non-positive ttl", purpose)
		}
		if err := cfg.Signer.Validate(); err != nil {
			return nil, fmt.Errorf("keychain: purpose %q signer: %w", purpose, err)
		}
	}

	return &Keychain{
		Store:   st,
		Issuer:  issuer,
		Clock:   clock,
		configs: configs,
	}, nil
}

// Config returns the registered configuration for a purpose.
func (k *Keychain) Config(purpose Purpose) (TokenConfig, error) {
	cfg, ok := k.configs[purpose]
	if !ok {
		return TokenConfig{}, fmt.Errorf("%w: %q", ErrUnknownPurpose, purpose)
	}
	return cfg, nil
}

// HasPurpose reports whether a purpose is registered. Refresh tokens
// are optional, so callers check before minting a pair.
func (k *Keychain) HasPurpose(purpose Purpose) bool {
	_, ok := k.configs[purpose]
	return ok
}

// MakeToken mints a signed compact token for the user under the given
// purpose. Reset tokens additionally carry a fingerprint of the current
// password hash, so they die the moment the password changes.
func (k *Keychain) MakeToken(u domain.User, purpose Purpose) (string, error) {
	cfg, err := k.Config(purpose)
	if err != nil {
		return "", err
	}

	claims := jwtx.NewClaims(u.ID, string(purpose), cfg.TTL, k.Issuer, k.Clock.Now())
	if purpose == PurposeReset {
		claims = claims.WithPasswordVersion(cryptox.Fingerprint(u.PasswordHash))
	}

	return cfg.Signer.Sign(claims)
}

// DecodeToken checks the signature and standard claims of a token under
// the given purpose and returns its claims. It does NOT touch the user
// store; use Authenticate for that.
//
// Verification order is fixed: signature first, then expiry, then the
// purpose claim. Expiry failures name the "exp" claim; a wrong purpose
// comes back as a bare mismatch so callers learn nothing extra.
func (k *Keychain) DecodeToken(token string, purpose Purpose) (jwtx.Claims, error) {
	cfg, err := k.Config(purpose)
	if err != nil {
		return jwtx.Claims{}, err
	}

	claims, err := cfg.Verifier.Decode(token)
	if err != nil {
		return jwtx.Claims{}, err
	}

	err = jwtx.VerifyClaims(claims, k.Clock.Now(),
		jwtx.ExpiryVerifier{},
		jwtx.EqualityVerifier{Name: jwtx.ClaimPurpose, Want: string(purpose)},
	)
	if err != nil {
		return jwtx.Claims{}, err
	}

	return claims, nil
}

// Authenticate decodes a token under the given purpose and resolves its
// subject to a stored user. Reset tokens additionally have their
// password-version claim checked against the user's current hash.
//
// A subject that no longer exists comes back as the same bare mismatch
// a wrong claim would, so callers cannot probe which accounts are live.
func (k *Keychain) Authenticate(ctx context.Context, token string, purpose Purpose) (domain.User, jwtx.Claims, error) {
	claims, err := k.DecodeToken(token, purpose)
	if err != nil {
		return domain.User{}, jwtx.Claims{}, err
	}

	sub := claims.StringClaim(jwtx.ClaimSubject)
	if sub == "" {
		return domain.User{}, jwtx.Claims{}, &jwtx.ClaimError{Claim: jwtx.ClaimSubject, Err: jwtx.ErrMissingClaim}
	}

	u, err := k.Store.Users().GetUserByID(ctx, sub)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, jwtx.Claims{}, jwtx.ErrClaimMismatch
		}
		return domain.User{}, jwtx.Claims{}, err
	}

	if purpose == PurposeReset {
		err = jwtx.VerifyClaims(claims, k.Clock.Now(), jwtx.EqualityVerifier{
			Name: jwtx.ClaimPasswordVersion,
			Want: cryptox.Fingerprint(u.PasswordHash),
		})
		if err != nil {
			return domain.User{}, jwtx.Claims{}, err
		}
	}

	return u, claims, nil
}

// AuthenticateToken lets the Keychain serve as the bearer-auth hook for
// httpx.AuthnMiddleware. Only access tokens grant request identity.
func (k *Keychain) AuthenticateToken(ctx context.Context, token string) (httpx.Identity, error) {
	u, claims, err := k.Authenticate(ctx, token, PurposeAccess)
	if err != nil {
		return httpx.Identity{}, err
	}

	return httpx.Identity{
		UserID: u.ID,
		Claims: claims,
		User:   u,
	}, nil
}
