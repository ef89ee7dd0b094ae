package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/SstealzZ/LinkStart/internal/domain"
	"github.com/SstealzZ/LinkStart/internal/store"
)

// SessionKey is the single key the session record lives under.
// Useful for headless deployments where several dashboard instances
// share one session.
const SessionKey = "linkstart:session"

// Store persists the session record in Redis.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Load(ctx context.Context) (domain.Session, error) {
	data, err := s.client.Get(ctx, SessionKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Session{}, store.ErrNoSession
		}
		return domain.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		// Corrupt record counts as no session.
		return domain.Session{}, store.ErrNoSession
	}
	if session.Empty() {
		return domain.Session{}, store.ErrNoSession
	}
	return session, nil
}

func (s *Store) Save(ctx context.Context, session domain.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	// No TTL: the token's own expiry governs the session lifetime.
	if err := s.client.Set(ctx, SessionKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, SessionKey).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
