package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "k", []byte(`{"a":1}`)))
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got))

	require.NoError(t, store.Set(ctx, "k", []byte(`{"a":2}`)))
	got, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":2}`, string(got))

	require.NoError(t, store.Clear(ctx, "k"))
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	// 重复清除不是错误
	assert.NoError(t, store.Clear(ctx, "k"))
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	testStore(t, NewFileStore(dir))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("EAUTH_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("EAUTH_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })
	testStore(t, NewRedisStore(client, "eauth-console-test", time.Minute))
}

func TestNewStoreBackends(t *testing.T) {
	store, err := NewStore(StoreConfig{Backend: "memory"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = NewStore(StoreConfig{Backend: "file", Dir: t.TempDir()}, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)

	store, err = NewStore(StoreConfig{Backend: "redis", RedisAddr: "127.0.0.1:0"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, store)

	_, err = NewStore(StoreConfig{Backend: "etcd"}, nil)
	assert.Error(t, err)
}

func TestSessionSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first := NewSession(NewFileStore(dir), nil)
	require.NoError(t, first.Restore(ctx))
	assert.Empty(t, first.Token())

	require.NoError(t, first.Login(ctx, "tok", "admin"))

	second := NewSession(NewFileStore(dir), nil)
	require.NoError(t, second.Restore(ctx))
	assert.Equal(t, "tok", second.Token())
	assert.Equal(t, "admin", second.Username())

	require.NoError(t, second.Clear(ctx))
	assert.Empty(t, second.Token())

	third := NewSession(NewFileStore(dir), nil)
	require.NoError(t, third.Restore(ctx))
	assert.Empty(t, third.Token())
	assert.Empty(t, third.Username())
}

func TestSessionCorruptEntry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, TokenKey, []byte("{broken")))

	sess := NewSession(store, nil)
	require.NoError(t, sess.Restore(ctx))
	assert.Empty(t, sess.Token())

	_, err := store.Get(ctx, TokenKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPageStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	pages := NewPageStore(store)
	require.NoError(t, pages.Restore(ctx))
	assert.Equal(t, DefaultPageSize, pages.PageSize())

	require.NoError(t, pages.SetPageSize(ctx, 50))
	assert.Equal(t, 50, pages.PageSize())

	err := pages.SetPageSize(ctx, 30)
	assert.ErrorIs(t, err, ErrInvalidPageSize)
	assert.Equal(t, 50, pages.PageSize())

	restored := NewPageStore(store)
	require.NoError(t, restored.Restore(ctx))
	assert.Equal(t, 50, restored.PageSize())

	require.NoError(t, store.Set(ctx, PageKey, []byte(`{"pageSize":7}`)))
	require.NoError(t, restored.Restore(ctx))
	assert.Equal(t, DefaultPageSize, restored.PageSize())

	assert.Equal(t, []int{10, 20, 50, 100, 200}, PageSizes())
}

func TestClaims(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	claims, err := Claims(signed)
	require.NoError(t, err)
	assert.Equal(t, "admin", ClaimsUsername(claims))

	claims, err = Claims("Bearer " + signed)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims["sub"])

	_, err = Claims("not-a-jwt")
	assert.Error(t, err)
}
