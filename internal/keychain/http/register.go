package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/keychain/internal/keychain/service"
	"github.com/aussiebroadwan/keychain/pkg/httpx"
	"github.com/aussiebroadwan/keychain/pkg/slogx"
)

type RegisterHandler struct {
	AccountService *service.AccountService
}

// RegisterResponse is returned on successful signup.
type RegisterResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid form data")
		return
	}

	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")

	if username == "" || email == "" || password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
			"username, email and password are required")
		return
	}

	user, err := h.AccountService.Register(ctx, username, email, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			httpx.WriteError(w, http.StatusConflict, "username_taken",
				"Username or email is already in use")
		case errors.Is(err, service.ErrWeakPassword):
			httpx.WriteError(w, http.StatusBadRequest, "weak_password",
				"Password does not meet the minimum length")
		case errors.Is(err, service.ErrInvalidInput):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
				"Invalid registration parameters")
		default:
			log.Error("failed to register user", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error",
				"Failed to register user")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, RegisterResponse{
		UserID:   user.ID,
		Username: user.Username,
	})
}
