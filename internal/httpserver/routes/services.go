package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/SstealzZ/LinkStart/internal/httpserver/deps"
	"github.com/SstealzZ/LinkStart/internal/httpserver/handlers"
	"github.com/SstealzZ/LinkStart/internal/httpserver/mw"
)

func init() { Register(registerServices) }

func registerServices(r chi.Router, d deps.Deps) {
	sub := r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
		mw.RequireSession(d.Session),
	)

	sub.Post("/services", handlers.AddService(d))
	sub.Post("/services/{id}/delete", handlers.DeleteService(d))
	sub.Post("/services/delete-mode", handlers.ToggleDeleteMode(d))
	sub.Post("/services/import", handlers.ImportServices(d))
	sub.Post("/refresh", handlers.Refresh(d))
}
