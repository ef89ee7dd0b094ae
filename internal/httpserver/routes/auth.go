package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/SstealzZ/LinkStart/internal/httpserver/deps"
	"github.com/SstealzZ/LinkStart/internal/httpserver/handlers"
	"github.com/SstealzZ/LinkStart/internal/httpserver/mw"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	guarded := r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
	)

	// Anonymous-only pages: a logged-in user landing here goes home.
	anon := guarded.With(mw.RedirectIfAuthenticated(d.Session))
	anon.Get("/login", handlers.LoginPage(d))
	anon.Get("/register", handlers.RegisterPage(d))

	// Credential forms carry a per-IP rate limit.
	limited := anon.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.LoginBurst,
		RefillPerIPPerMin: d.LoginRefillPerMin,
		TrustProxy:        d.TrustProxy,
	}))
	limited.Post("/login", handlers.Login(d))
	limited.Post("/register", handlers.Register(d))

	guarded.Post("/logout", handlers.Logout(d))
}
