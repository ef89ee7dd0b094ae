package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/SstealzZ/LinkStart/internal/api"
	"github.com/SstealzZ/LinkStart/internal/domain"
	"github.com/SstealzZ/LinkStart/internal/logger"
)

// ErrValidation marks a draft rejected client-side, before any network
// call. Surface it to the user inline; it never reaches the API.
var ErrValidation = errors.New("validation failed")

// ErrNoToken is returned by mutating operations that require an
// authenticated session.
var ErrNoToken = errors.New("no access token")

// Auth is the slice of the session manager the collection depends on.
type Auth interface {
	Token() string
	Username() string
	Refresh(ctx context.Context) (string, error)
}

// Manager owns the authoritative in-memory service list. The list is
// the single source of truth for the rendered view; every mutating
// operation is all-or-nothing with respect to list visibility.
type Manager struct {
	api    *api.Client
	auth   Auth
	logger logger.Logger

	mu          sync.Mutex
	list        []domain.Service
	counter     *OnlineCounter
	generation  uint64
	deleteArmed bool
}

func New(client *api.Client, auth Auth, log logger.Logger) *Manager {
	return &Manager{
		api:     client,
		auth:    auth,
		logger:  log,
		counter: NewOnlineCounter(),
	}
}

// FetchAll replaces the list wholesale with the remote collection.
// Without a token it is a silent no-op. On a 401 carrying the
// expired-token marker it refreshes once and retries once; any second
// failure leaves the prior list untouched. A successful fetch resets
// the online counter (zero, latch enabled) and starts a new probe
// generation.
func (m *Manager) FetchAll(ctx context.Context) error {
	token := m.auth.Token()
	if token == "" {
		return nil
	}

	fetched, err := m.api.ListServices(ctx, token)
	if err != nil {
		if !api.IsTokenExpired(err) {
			return fmt.Errorf("failed to fetch services: %w", err)
		}
		newToken, refreshErr := m.auth.Refresh(ctx)
		if refreshErr != nil {
			return fmt.Errorf("failed to refresh expired token: %w", refreshErr)
		}
		fetched, err = m.api.ListServices(ctx, newToken)
		if err != nil {
			// Second failure: no further retries, prior list stays.
			return fmt.Errorf("failed to fetch services after refresh: %w", err)
		}
	}

	m.mu.Lock()
	m.list = fetched
	m.generation++
	m.mu.Unlock()
	m.counter.Reset()

	m.logger.Info("service collection fetched", logger.Int("count", len(fetched)))
	return nil
}

// Add validates a draft, submits it and appends the persisted record
// (carrying its server-assigned id) to the end of the list. Insertion
// order is arrival order. On any failure the list is untouched and the
// error is surfaced for display.
func (m *Manager) Add(ctx context.Context, draft domain.Service) (domain.Service, error) {
	if draft.Owner == "" {
		draft.Owner = m.auth.Username()
	}
	if missing := draft.MissingFields(); len(missing) > 0 {
		return domain.Service{}, fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}

	token := m.auth.Token()
	if token == "" {
		return domain.Service{}, ErrNoToken
	}

	created, err := m.api.CreateService(ctx, token, draft)
	if err != nil {
		return domain.Service{}, fmt.Errorf("failed to add service: %w", err)
	}
	if created.Draft() {
		m.logger.Warn("created service came back without an id",
			logger.String("name", created.Name))
	}

	m.mu.Lock()
	m.list = append(m.list, created)
	m.mu.Unlock()

	m.logger.Info("service added",
		logger.String("id", created.ID),
		logger.String("name", created.Name))
	return created, nil
}

// Delete removes a service remotely, then drops the matching entry from
// the list by identity on id. On an expired-token 401 it refreshes once
// and retries once, same as FetchAll; a second failure propagates for
// the caller to display.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: missing id", ErrValidation)
	}
	token := m.auth.Token()
	if token == "" {
		return ErrNoToken
	}

	if err := m.api.DeleteService(ctx, token, id); err != nil {
		if !api.IsTokenExpired(err) {
			return fmt.Errorf("failed to delete service %s: %w", id, err)
		}
		newToken, refreshErr := m.auth.Refresh(ctx)
		if refreshErr != nil {
			return fmt.Errorf("failed to refresh expired token: %w", refreshErr)
		}
		if err := m.api.DeleteService(ctx, newToken, id); err != nil {
			return fmt.Errorf("failed to delete service %s after refresh: %w", id, err)
		}
	}

	m.mu.Lock()
	kept := m.list[:0]
	for _, svc := range m.list {
		if svc.ID != id {
			kept = append(kept, svc)
		}
	}
	m.list = kept
	m.mu.Unlock()

	m.logger.Info("service deleted", logger.String("id", id))
	return nil
}

// Clear empties the list and resets the online counter. Used on logout.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.list = nil
	m.generation++
	m.deleteArmed = false
	m.mu.Unlock()
	m.counter.Reset()
}

// Services returns a snapshot copy of the list in insertion order.
func (m *Manager) Services() []domain.Service {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Service, len(m.list))
	copy(out, m.list)
	return out
}

// Count returns the number of services in the collection.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.list)
}

// Generation identifies the current fetch pass. Probe results are only
// valid for the generation they were started under.
func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

// Counter exposes the online aggregate for this collection.
func (m *Manager) Counter() *OnlineCounter {
	return m.counter
}

// ArmDelete enables the destructive controls in the view.
func (m *Manager) ArmDelete() {
	m.mu.Lock()
	m.deleteArmed = true
	m.mu.Unlock()
}

// DisarmDelete hides the destructive controls again.
func (m *Manager) DisarmDelete() {
	m.mu.Lock()
	m.deleteArmed = false
	m.mu.Unlock()
}

// DeleteArmed reports whether delete controls should be shown.
func (m *Manager) DeleteArmed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteArmed
}
