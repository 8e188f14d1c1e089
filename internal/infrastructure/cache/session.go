package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:token:"

var ErrNoToken = errors.New("no token stored for session")

// SessionStore keeps upstream bearer tokens keyed by session id, with the
// token's own expiry as the TTL. It implements upstream.TokenSource for a
// fixed session via Bind.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func (s *SessionStore) Set(ctx context.Context, sessionID, token string, ttl time.Duration) error {
	return s.rdb.Set(ctx, sessionKeyPrefix+sessionID, token, ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	token, err := s.rdb.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoToken
	}
	return token, err
}

func (s *SessionStore) Clear(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+sessionID).Err()
}

// Bind fixes the store to one session id, yielding a TokenSource.
func (s *SessionStore) Bind(sessionID string) *BoundSession {
	return &BoundSession{store: s, sessionID: sessionID}
}

type BoundSession struct {
	store     *SessionStore
	sessionID string
}

func (b *BoundSession) Token(ctx context.Context) (string, error) {
	return b.store.Get(ctx, b.sessionID)
}
