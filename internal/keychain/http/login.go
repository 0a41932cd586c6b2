package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/keychain/internal/keychain/service"
	"github.com/aussiebroadwan/keychain/pkg/httpx"
	"github.com/aussiebroadwan/keychain/pkg/slogx"
)

type LoginHandler struct {
	AccountService *service.AccountService
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid form data")
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	if username == "" || password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
			"username and password are required")
		return
	}

	pair, err := h.AccountService.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// Same response for unknown user and wrong password.
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials",
				"Username or password is incorrect")
			return
		}
		log.Error("login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error",
			"Failed to log in")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, pair)
}
