package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/SstealzZ/LinkStart/internal/domain"
	"github.com/SstealzZ/LinkStart/internal/store"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "state", "session.json"))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	session := domain.Session{
		User:         domain.User{Username: "alice", Email: "alice@example.com"},
		AccessToken:  "T1",
		RefreshToken: "R1",
	}
	if err := s.Save(ctx, session); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded != session {
		t.Errorf("Load() = %+v, want %+v", loaded, session)
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := testStore(t)

	_, err := s.Load(context.Background())
	if !errors.Is(err, store.ErrNoSession) {
		t.Errorf("Load() error = %v, want ErrNoSession", err)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	s := New(path)
	_, err := s.Load(context.Background())
	if !errors.Is(err, store.ErrNoSession) {
		t.Errorf("Load() on corrupt file error = %v, want ErrNoSession", err)
	}
}

func TestLoadEmptyTokenCountsAsNoSession(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")
	if err := os.WriteFile(path, []byte(`{"user":{"username":"alice"}}`), 0o600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	s := New(path)
	_, err := s.Load(context.Background())
	if !errors.Is(err, store.ErrNoSession) {
		t.Errorf("Load() without token error = %v, want ErrNoSession", err)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, domain.Session{AccessToken: "T1"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Errorf("second Clear() error = %v, want nil", err)
	}
	if _, err := s.Load(ctx); !errors.Is(err, store.ErrNoSession) {
		t.Errorf("Load() after Clear() error = %v, want ErrNoSession", err)
	}
}

func TestSaveRestrictsPermissions(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, domain.Session{AccessToken: "T1"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	info, err := os.Stat(s.path)
	if err != nil {
		t.Fatalf("failed to stat session file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("session file mode = %o, want 600", perm)
	}
}
