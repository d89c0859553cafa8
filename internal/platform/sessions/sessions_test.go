package sessions

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gourmetto/internal/domain/hr"
)

type stubRedis struct {
	store map[string]string
	ttls  map[string]time.Duration
}

func (s *stubRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if s.store == nil {
		s.store = map[string]string{}
		s.ttls = map[string]time.Duration{}
	}
	switch v := value.(type) {
	case []byte:
		s.store[key] = string(v)
	default:
		s.store[key] = fmt.Sprint(v)
	}
	s.ttls[key] = expiration
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("OK")
	return cmd
}

func (s *stubRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx)
	val, ok := s.store[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(val)
	return cmd
}

func (s *stubRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var removed int64
	for _, key := range keys {
		if _, ok := s.store[key]; ok {
			delete(s.store, key)
			removed++
		}
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(removed)
	return cmd
}

func sample(ttl time.Duration) Session {
	return Session{
		ID:        "sid-1",
		User:      hr.AppUser{ID: "u1", Name: "Admin", Email: "admin@x.com", Role: "Gerente"},
		ExpiresAt: time.Now().Add(ttl),
	}
}

func TestRedisStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	client := &stubRedis{}
	store := NewRedisStore(client)

	require.NoError(t, store.Save(ctx, sample(time.Hour)))
	for key, ttl := range client.ttls {
		assert.True(t, strings.HasPrefix(key, "rh:session:"))
		assert.NotContains(t, key, "sid-1", "raw session ids are not stored")
		assert.Greater(t, ttl, 59*time.Minute)
	}

	got, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "Admin", got.User.Name)

	require.NoError(t, store.Delete(ctx, "sid-1"))
	_, err = store.Get(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreRejectsExpired(t *testing.T) {
	store := NewRedisStore(&stubRedis{})
	assert.Error(t, store.Save(context.Background(), sample(-time.Minute)))
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, Session{ID: "a", ExpiresAt: now.Add(time.Minute)}))
	_, err := store.Get(ctx, "a")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, sample(time.Hour)))
	require.NoError(t, store.Delete(ctx, "sid-1"))
	_, err := store.Get(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

type brokenStore struct{ *MemoryStore }

func (brokenStore) Get(context.Context, string) (Session, error) {
	return Session{}, fmt.Errorf("dial tcp: connection refused")
}

func TestAlive(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, Session{ID: "s1", ExpiresAt: time.Now().Add(time.Hour)}))

	ok, err := Alive(ctx, store, "s1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Alive(ctx, store, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Alive(ctx, brokenStore{NewMemoryStore()}, "s1")
	require.Error(t, err)
	assert.False(t, ok)
}
