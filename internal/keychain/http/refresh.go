package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/keychain/internal/keychain/service"
	"github.com/aussiebroadwan/keychain/pkg/httpx"
	"github.com/aussiebroadwan/keychain/pkg/slogx"
)

type RefreshHandler struct {
	AccountService *service.AccountService
}

func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid form data")
		return
	}

	refreshToken := r.FormValue("refresh_token")
	if refreshToken == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
			"refresh_token is required")
		return
	}

	pair, err := h.AccountService.Refresh(ctx, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_token",
				"Refresh token is invalid or expired")
		case errors.Is(err, service.ErrUnknownPurpose):
			// Refresh tokens are not enabled on this deployment.
			httpx.WriteError(w, http.StatusBadRequest, "unsupported_grant",
				"Refresh tokens are not enabled")
		default:
			log.Error("refresh failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error",
				"Failed to refresh token")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, pair)
}
