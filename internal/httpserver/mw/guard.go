package mw

import "net/http"

// SessionState is the slice of the session manager the routing guards
// need. The guards never read the token, only the authenticated flag.
type SessionState interface {
	Authenticated() bool
}

// RequireSession redirects anonymous requests to the login page.
// Protected pages sit behind this guard.
func RequireSession(session SessionState) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !session.Authenticated() {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RedirectIfAuthenticated sends already-authenticated visitors of the
// login/register pages back to the dashboard.
func RedirectIfAuthenticated(session SessionState) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session.Authenticated() {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
