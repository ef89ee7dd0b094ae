package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SstealzZ/LinkStart/internal/api"
	"github.com/SstealzZ/LinkStart/internal/domain"
	"github.com/SstealzZ/LinkStart/internal/logger"
)

// fakeAuth implements Auth with scripted behavior.
type fakeAuth struct {
	token        string
	username     string
	refreshed    string
	refreshErr   error
	refreshCalls int
}

func (f *fakeAuth) Token() string    { return f.token }
func (f *fakeAuth) Username() string { return f.username }

func (f *fakeAuth) Refresh(ctx context.Context) (string, error) {
	f.refreshCalls++
	if f.refreshErr != nil {
		return "", f.refreshErr
	}
	f.token = f.refreshed
	return f.refreshed, nil
}

// mockRemote counts requests per endpoint and can be scripted to
// return expired-token 401s.
type mockRemote struct {
	mux          *http.ServeMux
	listCalls    int
	createCalls  int
	deleteCalls  int
	expireUntil  int // list/delete requests answered with 401 Token expired while listCalls/deleteCalls <= expireUntil
	listResponse []domain.Service
	deleteStatus int
}

func newMockRemote() *mockRemote {
	m := &mockRemote{
		mux: http.NewServeMux(),
		listResponse: []domain.Service{
			{ID: "1", Name: "web", Owner: "alice", PublicIP: "1.2.3.4", PrivateIP: "10.0.0.1"},
			{ID: "2", Name: "db", Owner: "alice", PublicIP: "1.2.3.5", PrivateIP: "10.0.0.2"},
		},
		deleteStatus: http.StatusOK,
	}

	m.mux.HandleFunc("GET /services", func(w http.ResponseWriter, r *http.Request) {
		m.listCalls++
		if m.listCalls <= m.expireUntil {
			writeExpired(w)
			return
		}
		_ = json.NewEncoder(w).Encode(m.listResponse)
	})
	m.mux.HandleFunc("POST /services", func(w http.ResponseWriter, r *http.Request) {
		m.createCalls++
		var draft domain.Service
		_ = json.NewDecoder(r.Body).Decode(&draft)
		draft.ID = "7"
		_ = json.NewEncoder(w).Encode(draft)
	})
	m.mux.HandleFunc("DELETE /services/{id}", func(w http.ResponseWriter, r *http.Request) {
		m.deleteCalls++
		if m.deleteCalls <= m.expireUntil {
			writeExpired(w)
			return
		}
		if m.deleteStatus != http.StatusOK {
			w.WriteHeader(m.deleteStatus)
			_, _ = w.Write([]byte(`{"detail": "Service not found"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Service successfully deleted"})
	})

	return m
}

func writeExpired(w http.ResponseWriter) {
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"detail": "Token expired"}`))
}

func newTestManager(t *testing.T, remote *mockRemote, auth *fakeAuth) *Manager {
	t.Helper()
	srv := httptest.NewServer(remote.mux)
	t.Cleanup(srv.Close)

	client := api.New(srv.URL, api.Endpoints{}, 2*time.Second, logger.Nop())
	return New(client, auth, logger.Nop())
}

func TestFetchAllReplacesListAndResetsCounter(t *testing.T) {
	remote := newMockRemote()
	m := newTestManager(t, remote, &fakeAuth{token: "T1", username: "alice"})

	m.Counter().Increment()
	m.Counter().DisableIncrement()

	if err := m.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if m.Count() != 2 {
		t.Errorf("Count() = %d, want 2", m.Count())
	}
	if m.Counter().Value() != 0 {
		t.Errorf("counter = %d after fetch, want 0", m.Counter().Value())
	}

	// Latch must be re-enabled by the fetch.
	m.Counter().Increment()
	if m.Counter().Value() != 1 {
		t.Error("fetch must reset the increment latch to enabled")
	}
}

func TestFetchAllWithoutTokenIsNoop(t *testing.T) {
	remote := newMockRemote()
	m := newTestManager(t, remote, &fakeAuth{})

	if err := m.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if remote.listCalls != 0 {
		t.Errorf("list endpoint hit %d times without token, want 0", remote.listCalls)
	}
}

func TestFetchAllRetriesOnceOnExpiredToken(t *testing.T) {
	remote := newMockRemote()
	remote.expireUntil = 1
	auth := &fakeAuth{token: "T1", username: "alice", refreshed: "T2"}
	m := newTestManager(t, remote, auth)

	if err := m.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if auth.refreshCalls != 1 {
		t.Errorf("refresh calls = %d, want exactly 1", auth.refreshCalls)
	}
	if remote.listCalls != 2 {
		t.Errorf("list calls = %d, want 2 (original + one retry)", remote.listCalls)
	}
	if m.Count() != 2 {
		t.Errorf("Count() = %d, want 2", m.Count())
	}
}

func TestFetchAllSecondExpiryLeavesListUntouched(t *testing.T) {
	remote := newMockRemote()
	auth := &fakeAuth{token: "T1", username: "alice", refreshed: "T2"}
	m := newTestManager(t, remote, auth)

	// Seed a prior list.
	if err := m.FetchAll(context.Background()); err != nil {
		t.Fatalf("seed FetchAll() error = %v", err)
	}
	prior := m.Services()

	// Both the retry and the original now report expiry.
	remote.expireUntil = 100
	err := m.FetchAll(context.Background())
	if err == nil {
		t.Fatal("FetchAll() error = nil, want failure after second expiry")
	}
	if auth.refreshCalls != 1 {
		t.Errorf("refresh calls = %d, want exactly 1 (no second retry)", auth.refreshCalls)
	}

	got := m.Services()
	if len(got) != len(prior) {
		t.Fatalf("list changed after failed fetch: %d entries, want %d", len(got), len(prior))
	}
	for i := range got {
		if got[i] != prior[i] {
			t.Errorf("list entry %d changed after failed fetch", i)
		}
	}
}

func TestFetchAllRefreshFailurePropagates(t *testing.T) {
	remote := newMockRemote()
	remote.expireUntil = 100
	auth := &fakeAuth{token: "T1", refreshErr: errors.New("refresh rejected")}
	m := newTestManager(t, remote, auth)

	err := m.FetchAll(context.Background())
	if err == nil {
		t.Fatal("FetchAll() error = nil, want refresh failure propagated")
	}
	if !errors.Is(err, auth.refreshErr) {
		t.Errorf("error %v should wrap the refresh failure", err)
	}
	if remote.listCalls != 1 {
		t.Errorf("list calls = %d, want 1 (no retry after failed refresh)", remote.listCalls)
	}
}

func TestAddValidatesBeforeNetwork(t *testing.T) {
	remote := newMockRemote()
	m := newTestManager(t, remote, &fakeAuth{token: "T1", username: "alice"})

	tests := []struct {
		name  string
		draft domain.Service
	}{
		{"missing name", domain.Service{PublicIP: "1.2.3.4", PrivateIP: "10.0.0.1"}},
		{"missing public ip", domain.Service{Name: "web", PrivateIP: "10.0.0.1"}},
		{"missing private ip", domain.Service{Name: "web", PublicIP: "1.2.3.4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Add(context.Background(), tt.draft)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Add() error = %v, want ErrValidation", err)
			}
		})
	}

	if remote.createCalls != 0 {
		t.Errorf("create endpoint hit %d times, want 0", remote.createCalls)
	}
	if m.Count() != 0 {
		t.Errorf("Count() = %d after rejected drafts, want 0", m.Count())
	}
}

func TestAddDefaultsOwnerToSessionUsername(t *testing.T) {
	remote := newMockRemote()
	m := newTestManager(t, remote, &fakeAuth{token: "T1", username: "alice"})

	created, err := m.Add(context.Background(), domain.Service{
		Name: "web", PublicIP: "1.2.3.4", PrivateIP: "10.0.0.1",
	})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if created.Owner != "alice" {
		t.Errorf("Owner = %q, want alice", created.Owner)
	}
	if created.ID != "7" {
		t.Errorf("ID = %q, want server-assigned 7", created.ID)
	}

	list := m.Services()
	if len(list) != 1 || list[0].ID != "7" {
		t.Errorf("collection = %+v, want single entry with id 7", list)
	}
}

func TestAddWithoutToken(t *testing.T) {
	remote := newMockRemote()
	m := newTestManager(t, remote, &fakeAuth{username: "alice"})

	_, err := m.Add(context.Background(), domain.Service{
		Name: "web", PublicIP: "1.2.3.4", PrivateIP: "10.0.0.1",
	})
	if !errors.Is(err, ErrNoToken) {
		t.Errorf("Add() error = %v, want ErrNoToken", err)
	}
	if remote.createCalls != 0 {
		t.Errorf("create endpoint hit %d times, want 0", remote.createCalls)
	}
}

func TestDeleteRemovesExactlyMatchingEntry(t *testing.T) {
	remote := newMockRemote()
	m := newTestManager(t, remote, &fakeAuth{token: "T1", username: "alice"})

	if err := m.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	if err := m.Delete(context.Background(), "1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	list := m.Services()
	if len(list) != 1 || list[0].ID != "2" {
		t.Errorf("collection after delete = %+v, want only id 2", list)
	}
}

func TestDeleteNonExistentReportsFailure(t *testing.T) {
	remote := newMockRemote()
	remote.deleteStatus = http.StatusNotFound
	m := newTestManager(t, remote, &fakeAuth{token: "T1", username: "alice"})

	if err := m.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	err := m.Delete(context.Background(), "999")
	if err == nil {
		t.Fatal("Delete() error = nil, want failure")
	}
	if m.Count() != 2 {
		t.Errorf("Count() = %d after failed delete, want 2 unchanged", m.Count())
	}
}

func TestDeleteRetriesOnceOnExpiredToken(t *testing.T) {
	remote := newMockRemote()
	auth := &fakeAuth{token: "T1", username: "alice", refreshed: "T2"}
	m := newTestManager(t, remote, auth)

	if err := m.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	remote.expireUntil = remote.deleteCalls + 1
	if err := m.Delete(context.Background(), "1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if auth.refreshCalls != 1 {
		t.Errorf("refresh calls = %d, want exactly 1", auth.refreshCalls)
	}
	if remote.deleteCalls != 2 {
		t.Errorf("delete calls = %d, want 2", remote.deleteCalls)
	}
	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}
}

func TestClearEmptiesCollection(t *testing.T) {
	remote := newMockRemote()
	m := newTestManager(t, remote, &fakeAuth{token: "T1", username: "alice"})

	if err := m.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	m.Counter().Increment()
	m.ArmDelete()

	gen := m.Generation()
	m.Clear()

	if m.Count() != 0 {
		t.Errorf("Count() = %d after Clear(), want 0", m.Count())
	}
	if m.Counter().Value() != 0 {
		t.Errorf("counter = %d after Clear(), want 0", m.Counter().Value())
	}
	if m.DeleteArmed() {
		t.Error("Clear() must disarm delete mode")
	}
	if m.Generation() == gen {
		t.Error("Clear() must start a new probe generation")
	}
}

func TestDeleteArmToggle(t *testing.T) {
	m := New(nil, &fakeAuth{}, logger.Nop())

	if m.DeleteArmed() {
		t.Error("delete mode should start disarmed")
	}
	m.ArmDelete()
	if !m.DeleteArmed() {
		t.Error("ArmDelete() should arm delete mode")
	}
	m.DisarmDelete()
	if m.DeleteArmed() {
		t.Error("DisarmDelete() should disarm delete mode")
	}
}
