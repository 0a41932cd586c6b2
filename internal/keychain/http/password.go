package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/keychain/internal/keychain/service"
	"github.com/aussiebroadwan/keychain/pkg/httpx"
	"github.com/aussiebroadwan/keychain/pkg/slogx"
)

// PasswordHandler covers the password lifecycle: forgot, reset, change.
type PasswordHandler struct {
	AccountService *service.AccountService
}

// HandleForgot accepts an email address and always answers 202. Whether
// the address maps to an account is not observable from outside.
func (h *PasswordHandler) HandleForgot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid form data")
		return
	}

	email := r.FormValue("email")
	if email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}

	if err := h.AccountService.ForgotPassword(ctx, email); err != nil {
		log.Error("forgot-password failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error",
			"Failed to process request")
		return
	}

	httpx.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// HandleReset redeems a reset token for a new password.
func (h *PasswordHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid form data")
		return
	}

	token := r.FormValue("reset_token")
	newPassword := r.FormValue("new_password")
	if token == "" || newPassword == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
			"reset_token and new_password are required")
		return
	}

	if err := h.AccountService.ResetPassword(ctx, token, newPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_token",
				"Reset token is invalid or expired")
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteError(w, http.StatusBadRequest, "weak_password",
				"Password does not meet the minimum length")
		default:
			log.Error("password reset failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error",
				"Failed to reset password")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleChange swaps the password for the authenticated user.
func (h *PasswordHandler) HandleChange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, httpx.ErrCodeUnauthorized, "")
		return
	}

	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid form data")
		return
	}

	current := r.FormValue("current_password")
	next := r.FormValue("new_password")
	if current == "" || next == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
			"current_password and new_password are required")
		return
	}

	if err := h.AccountService.ChangePassword(ctx, userID, current, next); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials",
				"Current password is incorrect")
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteError(w, http.StatusBadRequest, "weak_password",
				"Password does not meet the minimum length")
		default:
			log.Error("password change failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error",
				"Failed to change password")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
