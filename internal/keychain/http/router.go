package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/keychain/internal/keychain/service"
	"github.com/aussiebroadwan/keychain/internal/keychain/store"
	"github.com/aussiebroadwan/keychain/pkg/httpx"
	"github.com/aussiebroadwan/keychain/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	Keychain       *service.Keychain
	AccountService *service.AccountService
}

func NewRouter(st store.Store, buildVersion string, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerPasswords()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAccounts() {
	// POST /register - strict rate limit by IP (public signup endpoint)
	registerHandler := &RegisterHandler{AccountService: r.AccountService}
	r.Mux.Handle("POST /v1/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /login - strict rate limit by IP + username form field to
	// slow distributed brute force against a single account
	loginHandler := &LoginHandler{AccountService: r.AccountService}
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "username"),
		),
	)

	// POST /token/refresh - moderate rate limit by IP
	refreshHandler := &RefreshHandler{AccountService: r.AccountService}
	r.Mux.Handle("POST /v1/token/refresh",
		httpx.Chain(refreshHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /logout - authenticated, lenient rate limit by user
	r.Mux.Handle("POST /v1/logout",
		httpx.Chain(&LogoutHandler{},
			httpx.AuthnMiddleware(r.Keychain),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// GET /userinfo - authenticated, lenient rate limit by user
	userinfoHandler := &UserInfoHandler{AccountService: r.AccountService}
	r.Mux.Handle("GET /v1/userinfo",
		httpx.Chain(userinfoHandler,
			httpx.AuthnMiddleware(r.Keychain),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerPasswords() {
	h := &PasswordHandler{AccountService: r.AccountService}

	// POST /password/forgot - strict rate limit by IP (mints reset tokens)
	r.Mux.Handle("POST /v1/password/forgot",
		httpx.Chain(http.HandlerFunc(h.HandleForgot),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /password/reset - strict rate limit by IP (token redemption)
	r.Mux.Handle("POST /v1/password/reset",
		httpx.Chain(http.HandlerFunc(h.HandleReset),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /password/change - authenticated, strict rate limit by user
	// (re-checks the current password, so brute force matters here too)
	r.Mux.Handle("POST /v1/password/change",
		httpx.Chain(http.HandlerFunc(h.HandleChange),
			httpx.AuthnMiddleware(r.Keychain),
			httpx.RateLimitByUser(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
