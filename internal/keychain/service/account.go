package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/keychain/internal/keychain/domain"
	"github.com/aussiebroadwan/keychain/internal/keychain/store"
	"github.com/aussiebroadwan/keychain/pkg/cryptox"
	"github.com/aussiebroadwan/keychain/pkg/idx"
	"github.com/aussiebroadwan/keychain/pkg/slogx"
)

const MinPasswordLength = 10

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUsernameTaken      = errors.New("username_taken")
	ErrWeakPassword       = errors.New("weak_password")
	ErrInvalidInput       = errors.New("invalid_input")
)

// AccountService implements the user-facing flows: registration, login,
// refresh and the password lifecycle. Token mechanics live in Keychain;
// this layer owns the store and the policy around it.
type AccountService struct {
	Store    store.Store
	Keychain *Keychain
	Mailer   Mailer
}

// Register creates a new user with an argon2-hashed password.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))

	if username == "" || email == "" || !strings.Contains(email, "@") {
		return domain.User{}, ErrInvalidInput
	}
	if len(password) < MinPasswordLength {
		return domain.User{}, ErrWeakPassword
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, err
	}

	slogx.FromContext(ctx).Info("user registered", slog.String("user_id", u.ID))
	return u, nil
}

// Login verifies credentials and returns a fresh token pair. The
// refresh half is omitted when no refresh purpose is configured.
func (s *AccountService) Login(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn roughly the same time as a real verification so the
			// response does not reveal whether the username exists.
			_ = cryptox.VerifyPassword(password, dummyHash())
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Info("login failed", slog.String("user_id", u.ID))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	return s.mintPair(u)
}

// Refresh exchanges a valid refresh token for a new pair. The old token
// keeps working until its own expiry; there is no server-side state to
// rotate.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if !s.Keychain.HasPurpose(PurposeRefresh) {
		return nil, ErrUnknownPurpose
	}

	u, _, err := s.Keychain.Authenticate(ctx, refreshToken, PurposeRefresh)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return s.mintPair(u)
}

// ChangePassword swaps the password for an already-authenticated user.
// The current password is re-checked so a stolen access token alone is
// not enough.
func (s *AccountService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return ErrWeakPassword
	}

	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := cryptox.VerifyPassword(currentPassword, u.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			return ErrInvalidCredentials
		}
		return err
	}

	newHash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, userID, newHash); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("password changed", slog.String("user_id", userID))
	return nil
}

// ForgotPassword mints a reset token for the account behind an email
// address and hands it to the mailer. An unknown address is swallowed
// so the endpoint cannot be used to enumerate accounts.
func (s *AccountService) ForgotPassword(ctx context.Context, email string) error {
	l := slogx.FromContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, err := s.Keychain.MakeToken(u, PurposeReset)
	if err != nil {
		return err
	}

	if err := s.Mailer.SendPasswordReset(ctx, u.Email, token); err != nil {
		// The mailer failing is our problem, not the caller's; log it
		// and keep the response indistinguishable from success.
		l.Error("failed to send reset mail", slog.Any("error", err), slog.String("user_id", u.ID))
	}
	return nil
}

// ResetPassword redeems a reset token for a new password. The token's
// password-version claim is checked inside a transaction against the
// hash current at write time, so a token minted before an earlier
// change (or an earlier redemption of itself) is dead on arrival.
func (s *AccountService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if len(newPassword) < MinPasswordLength {
		return ErrWeakPassword
	}

	u, _, err := s.Keychain.Authenticate(ctx, resetToken, PurposeReset)
	if err != nil {
		return ErrInvalidToken
	}

	newHash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		fresh, err := tx.Users().GetUserByID(ctx, u.ID)
		if err != nil {
			return err
		}
		// Re-check against the row inside the tx in case the password
		// changed between token verification and this write.
		if fresh.PasswordHash != u.PasswordHash {
			return ErrInvalidToken
		}
		return tx.Users().UpdatePasswordHash(ctx, u.ID, newHash)
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("password reset", slog.String("user_id", u.ID))
	return nil
}

// GetUserByID fetches a user by id.
func (s *AccountService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

func (s *AccountService) mintPair(u domain.User) (*domain.TokenPair, error) {
	access, err := s.Keychain.MakeToken(u, PurposeAccess)
	if err != nil {
		return nil, err
	}

	accessCfg, err := s.Keychain.Config(PurposeAccess)
	if err != nil {
		return nil, err
	}

	pair := &domain.TokenPair{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   accessCfg.TTL / time.Second,
	}

	if s.Keychain.HasPurpose(PurposeRefresh) {
		refresh, err := s.Keychain.MakeToken(u, PurposeRefresh)
		if err != nil {
			return nil, err
		}
		pair.RefreshToken = refresh
	}

	return pair, nil
}

// dummyHash is a fixed argon2id hash used to equalise timing when the
// username lookup misses.
func dummyHash() string {
	return "$argon2id$v=19$m=19456,t=2,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
}
