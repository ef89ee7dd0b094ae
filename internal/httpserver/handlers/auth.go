package handlers

import (
	"net/http"
	"strings"

	"github.com/SstealzZ/LinkStart/internal/httpserver/deps"
	"github.com/SstealzZ/LinkStart/internal/logger"
)

type authView struct {
	AutoRefresh bool
	Error       string
}

func LoginPage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, d.Logger, "login", authView{})
	}
}

func RegisterPage(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, d.Logger, "register", authView{})
	}
}

func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		username := strings.TrimSpace(r.PostFormValue("username"))
		password := r.PostFormValue("password")

		if !d.Session.Login(r.Context(), username, password) {
			d.Logger.Info("login rejected", logger.String("username", username))
			w.WriteHeader(http.StatusUnauthorized)
			render(w, d.Logger, "login", authView{Error: "Invalid username or password."})
			return
		}

		// Warm the collection so the first dashboard render has data.
		if err := d.Collection.FetchAll(r.Context()); err != nil {
			d.Logger.Warn("initial collection fetch failed", logger.Error(err))
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func Register(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		username := strings.TrimSpace(r.PostFormValue("username"))
		email := strings.TrimSpace(r.PostFormValue("email"))
		password := r.PostFormValue("password")

		if !d.Session.Register(r.Context(), username, email, password) {
			d.Logger.Info("registration rejected", logger.String("username", username))
			w.WriteHeader(http.StatusUnprocessableEntity)
			render(w, d.Logger, "register", authView{Error: "Registration failed. Check the username (3+ chars) and password (8+ chars)."})
			return
		}

		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Session.Logout(r.Context())
		d.Collection.Clear()
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}
