package service

import (
	"context"
	"log/slog"

	"github.com/aussiebroadwan/keychain/pkg/slogx"
)

// Mailer delivers password-reset tokens to users. Production wires an
// SMTP or API-backed implementation; dev runs log delivery.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

// LogMailer writes the reset token to the log instead of sending mail.
// Only for local development.
type LogMailer struct{}

func (LogMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	slogx.FromContext(ctx).Info("password reset token issued",
		slog.String("email", email),
		slog.String("token", token),
	)
	return nil
}
