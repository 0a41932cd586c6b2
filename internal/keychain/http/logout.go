package http

import (
	"net/http"

	"github.com/aussiebroadwan/keychain/pkg/httpx"
	"github.com/aussiebroadwan/keychain/pkg/slogx"
)

// LogoutHandler acknowledges a logout. Tokens are stateless, so there
// is nothing to revoke server-side; clients discard their copies. The
// endpoint exists so clients have a uniform call to make and so the
// event lands in the audit log.
type LogoutHandler struct{}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	slogx.FromContext(ctx).Info("user logged out",
		"user_id", httpx.UserIDFromContext(ctx))

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
