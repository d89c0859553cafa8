// Package sessions keeps server-side login sessions so a signed token can
// be revoked before it expires.
package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"gourmetto/internal/domain/auth"
	"gourmetto/internal/domain/hr"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID        string     `json:"id"`
	User      hr.AppUser `json:"user"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

type Store interface {
	Save(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

// Alive reports whether the session id still resolves in store.
func Alive(ctx context.Context, store Store, id string) (bool, error) {
	_, err := store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type redisClient interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisStore persists sessions under a hashed key with the session's
// remaining lifetime as TTL.
type RedisStore struct {
	client redisClient
	prefix string
}

func NewRedisStore(client redisClient) *RedisStore {
	return &RedisStore{client: client, prefix: "rh:session:"}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + auth.HashToken(id)
}

func (s *RedisStore) Save(ctx context.Context, sess Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(sess.ID), payload, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (Session, error) {
	raw, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// MemoryStore is used when no Redis is configured. Sessions do not
// survive a restart.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]Session
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]Session{}, now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[auth.HashToken(sess.ID)] = sess
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := auth.HashToken(id)
	sess, ok := s.items[key]
	if !ok {
		return Session{}, ErrNotFound
	}
	if !s.now().Before(sess.ExpiresAt) {
		delete(s.items, key)
		return Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, auth.HashToken(id))
	return nil
}
