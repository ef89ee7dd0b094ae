package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/SstealzZ/LinkStart/internal/api"
	"github.com/SstealzZ/LinkStart/internal/domain"
	"github.com/SstealzZ/LinkStart/internal/logger"
	"github.com/SstealzZ/LinkStart/internal/store"
)

// Credential validation floors, enforced before any network call.
const (
	minUsernameLen = 3
	minPasswordLen = 8
)

// Manager owns the authentication state machine:
//
//	anonymous --login/register success--> authenticated
//	authenticated --logout--> anonymous
//	authenticated --refresh failure--> anonymous (forced)
//
// The access token is exposed only through Token(); there is no ambient
// default header anywhere. The credential store is a passive
// serialization target, never an owner.
type Manager struct {
	api    *api.Client
	store  store.Store
	logger logger.Logger

	mu            sync.Mutex
	user          domain.User
	accessToken   string
	refreshToken  string
	authenticated bool
	loading       bool
}

// New creates an anonymous manager. loading starts true and is cleared
// by the initial Restore pass.
func New(client *api.Client, st store.Store, log logger.Logger) *Manager {
	return &Manager{
		api:     client,
		store:   st,
		logger:  log,
		loading: true,
	}
}

// Restore populates the session from the credential store on startup.
// A missing or corrupt record leaves the session anonymous; loading is
// always cleared at the end, whatever happened.
func (m *Manager) Restore(ctx context.Context) {
	defer m.setLoading(false)

	persisted, err := m.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNoSession) {
			m.logger.Warn("failed to restore session, starting anonymous", logger.Error(err))
		}
		return
	}

	m.mu.Lock()
	m.user = persisted.User
	m.accessToken = persisted.AccessToken
	m.refreshToken = persisted.RefreshToken
	m.authenticated = true
	m.mu.Unlock()

	m.logger.Info("session restored",
		logger.String("username", persisted.User.Username),
		logger.Time("token_expires_at", m.TokenExpiresAt()))
}

// Login authenticates against the remote API and persists the session.
// It never returns an error: every failure path resolves to false and
// leaves the prior session state untouched (loading excepted).
func (m *Manager) Login(ctx context.Context, username, password string) bool {
	if username == "" || password == "" {
		m.logger.Debug("login rejected, missing credentials")
		return false
	}

	m.setLoading(true)
	defer m.setLoading(false)

	tokens, err := m.api.Login(ctx, username, password)
	if err != nil {
		m.logger.Warn("login failed", logger.String("username", username), logger.Error(err))
		return false
	}

	return m.adoptTokens(ctx, tokens)
}

// Register creates an account and performs the identical
// profile-fetch-and-persist sequence as Login. Same boolean contract.
func (m *Manager) Register(ctx context.Context, username, email, password string) bool {
	if len(username) < minUsernameLen || email == "" || len(password) < minPasswordLen {
		m.logger.Debug("register rejected by client-side validation",
			logger.String("username", username))
		return false
	}

	m.setLoading(true)
	defer m.setLoading(false)

	tokens, err := m.api.Register(ctx, username, email, password)
	if err != nil {
		m.logger.Warn("register failed", logger.String("username", username), logger.Error(err))
		return false
	}

	return m.adoptTokens(ctx, tokens)
}

// adoptTokens fetches the profile with the freshly issued access token,
// merges everything into the session and persists it.
func (m *Manager) adoptTokens(ctx context.Context, tokens api.TokenResponse) bool {
	user, err := m.api.Me(ctx, tokens.AccessToken)
	if err != nil {
		m.logger.Warn("profile fetch failed after auth", logger.Error(err))
		return false
	}

	session := domain.Session{
		User:         user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}
	if err := m.store.Save(ctx, session); err != nil {
		// Best effort: the in-memory session is still valid for this run.
		m.logger.Warn("failed to persist session", logger.Error(err))
	}

	m.mu.Lock()
	m.user = user
	m.accessToken = tokens.AccessToken
	m.refreshToken = tokens.RefreshToken
	m.authenticated = true
	m.mu.Unlock()

	m.logger.Info("authenticated",
		logger.String("username", user.Username),
		logger.Time("token_expires_at", m.TokenExpiresAt()))
	return true
}

// Refresh exchanges the stored refresh token for a new access token.
// Only the access token is replaced, in memory and in the store; the
// profile fields stay as they are. Any failure forces a logout and is
// propagated: callers in a retry-after-refresh flow must treat it as
// fatal for the in-flight operation.
func (m *Manager) Refresh(ctx context.Context) (string, error) {
	persisted, err := m.store.Load(ctx)
	if err != nil {
		m.Logout(ctx)
		return "", fmt.Errorf("no session to refresh: %w", err)
	}
	if persisted.RefreshToken == "" {
		m.Logout(ctx)
		return "", errors.New("stored session has no refresh token")
	}

	tokens, err := m.api.Refresh(ctx, persisted.RefreshToken)
	if err != nil {
		m.logger.Warn("token refresh failed, logging out", logger.Error(err))
		m.Logout(ctx)
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}

	persisted.AccessToken = tokens.AccessToken
	if err := m.store.Save(ctx, persisted); err != nil {
		m.logger.Warn("failed to persist refreshed token", logger.Error(err))
	}

	m.mu.Lock()
	m.accessToken = tokens.AccessToken
	m.mu.Unlock()

	m.logger.Info("access token refreshed",
		logger.Time("token_expires_at", m.TokenExpiresAt()))
	return tokens.AccessToken, nil
}

// Logout clears the session and erases the credential store entry.
// Idempotent: safe to call when already anonymous.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	wasAuthenticated := m.authenticated
	m.user = domain.User{}
	m.accessToken = ""
	m.refreshToken = ""
	m.authenticated = false
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn("failed to clear credential store", logger.Error(err))
	}
	if wasAuthenticated {
		m.logger.Info("logged out")
	}
}

// PingIP probes an IP through the remote ping endpoint. It never fails:
// any transport error is downgraded to an unreachable result.
func (m *Manager) PingIP(ctx context.Context, ip string) domain.PingResult {
	result, err := m.api.Ping(ctx, ip)
	if err != nil {
		m.logger.Debug("ping failed", logger.String("ip", ip), logger.Error(err))
		return domain.PingResult{Reachable: false}
	}
	return result
}

// Token returns the current access token, empty when anonymous.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accessToken
}

// Username returns the session's username, empty when anonymous.
func (m *Manager) Username() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user.Username
}

// User returns the current profile.
func (m *Manager) User() domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Authenticated reports whether a session is active.
func (m *Manager) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticated
}

// Loading reports whether an auth operation or the initial restore is
// in flight. Dependents should not trust Token() while this is true.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// TokenExpiresAt decodes the access token's exp claim without verifying
// the signature (the remote API is the verifier; we only display and
// log expiry). Returns the zero time when there is no token or the
// claim cannot be read.
func (m *Manager) TokenExpiresAt() time.Time {
	token := m.Token()
	if token == "" {
		return time.Time{}
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

func (m *Manager) setLoading(v bool) {
	m.mu.Lock()
	m.loading = v
	m.mu.Unlock()
}
