package store

import (
	"context"
	"errors"

	"github.com/SstealzZ/LinkStart/internal/domain"
)

// ErrNoSession is returned by Load when no usable session is persisted.
// A corrupt record is treated the same as absence: the restore path
// must degrade to anonymous, never crash.
var ErrNoSession = errors.New("no stored session")

// Store is a passive serialization target for the session record.
// It holds no logic and never owns the session; the session manager does.
type Store interface {
	Load(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, s domain.Session) error
	Clear(ctx context.Context) error
}
