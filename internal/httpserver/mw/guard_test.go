package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakeSession struct {
	authenticated bool
}

func (f *fakeSession) Authenticated() bool { return f.authenticated }

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSession(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		wantStatus    int
		wantLocation  string
	}{
		{
			name:          "anonymous redirected to login",
			authenticated: false,
			wantStatus:    http.StatusSeeOther,
			wantLocation:  "/login",
		},
		{
			name:          "authenticated passes through",
			authenticated: true,
			wantStatus:    http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequireSession(&fakeSession{authenticated: tt.authenticated})(okHandler())

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantLocation != "" && rec.Header().Get("Location") != tt.wantLocation {
				t.Errorf("Location = %q, want %q", rec.Header().Get("Location"), tt.wantLocation)
			}
		})
	}
}

func TestRedirectIfAuthenticated(t *testing.T) {
	handler := RedirectIfAuthenticated(&fakeSession{authenticated: true})(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/" {
		t.Errorf("Location = %q, want /", got)
	}

	handler = RedirectIfAuthenticated(&fakeSession{authenticated: false})(okHandler())
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("anonymous visitor status = %d, want 200", rec.Code)
	}
}
