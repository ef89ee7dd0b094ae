package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/SstealzZ/LinkStart/internal/httpserver/deps"
	"github.com/SstealzZ/LinkStart/internal/httpserver/handlers"
	"github.com/SstealzZ/LinkStart/internal/httpserver/mw"
)

func init() { Register(registerDashboard) }

func registerDashboard(r chi.Router, d deps.Deps) {
	r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
		mw.RequireSession(d.Session),
	).Get("/", handlers.Dashboard(d))
}
