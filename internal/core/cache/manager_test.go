package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"cuisine-classifier/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCacheConfig(maxSize int, ttl time.Duration) *config.CacheConfig {
	return &config.CacheConfig{
		Enabled: true,
		Backend: "memory",
		MaxSize: maxSize,
		TTL:     ttl,
	}
}

func TestManagerGetSet(t *testing.T) {
	t.Parallel()

	m := NewManager(testCacheConfig(10, time.Hour))
	defer m.Close()
	ctx := context.Background()

	_, err := m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, m.Set(ctx, "k", "italian"))
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "italian", got)

	stats := m.Stats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.Equal(t, 1, stats["size"])
	assert.Equal(t, 0.5, stats["hit_ratio"])
}

func TestManagerExpiry(t *testing.T) {
	t.Parallel()

	m := NewManager(testCacheConfig(10, time.Millisecond))
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "thai"))
	time.Sleep(5 * time.Millisecond)

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, 0, m.Stats()["size"])
}

func TestManagerEvictsLeastUsed(t *testing.T) {
	t.Parallel()

	m := NewManager(testCacheConfig(2, time.Hour))
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "b", "2"))
	_, err := m.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "c", "3"))

	_, err = m.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrMiss)
	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
	assert.Equal(t, 2, m.Stats()["size"])
}

func TestManagerOverwriteDoesNotEvict(t *testing.T) {
	t.Parallel()

	m := NewManager(testCacheConfig(2, time.Hour))
	defer m.Close()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, m.Set(ctx, "a", fmt.Sprint(i)))
	}
	require.NoError(t, m.Set(ctx, "b", "x"))

	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "4", got)
	assert.Equal(t, int64(0), m.Stats()["evictions"])
}

func TestManagerBackgroundCleanup(t *testing.T) {
	t.Parallel()

	cfg := testCacheConfig(10, time.Millisecond)
	cfg.CleanupInterval = 2 * time.Millisecond
	m := NewManager(cfg)
	defer m.Close()

	require.NoError(t, m.Set(context.Background(), "k", "v"))
	assert.Eventually(t, func() bool {
		return m.Stats()["size"] == 0
	}, time.Second, 5*time.Millisecond)
}

func TestManagerCloseIdempotent(t *testing.T) {
	t.Parallel()

	cfg := testCacheConfig(10, time.Hour)
	cfg.CleanupInterval = time.Minute
	m := NewManager(cfg)

	assert.NoError(t, m.Close())
	assert.NoError(t, m.Close())
}

func TestNew(t *testing.T) {
	t.Parallel()

	disabled := &config.Config{Cache: config.CacheConfig{Enabled: false}}
	store, err := New(disabled)
	require.NoError(t, err)
	assert.Nil(t, store)

	memory := &config.Config{Cache: *testCacheConfig(10, time.Hour)}
	store, err = New(memory)
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.IsType(t, &Manager{}, store)
	store.Close()

	unknown := &config.Config{Cache: config.CacheConfig{Enabled: true, Backend: "memcached"}}
	_, err = New(unknown)
	assert.Error(t, err)
}

func TestRedisServiceUnreachable(t *testing.T) {
	t.Parallel()

	cfg := testCacheConfig(10, time.Hour)
	cfg.Backend = "redis"
	cfg.Redis.Addr = "127.0.0.1:1"

	_, err := NewRedisService(cfg)
	assert.Error(t, err)
}

func TestKey(t *testing.T) {
	t.Parallel()

	a := Key([]string{"salt", "pepper"})
	assert.Equal(t, a, Key([]string{"salt", "pepper"}))
	assert.NotEqual(t, a, Key([]string{"pepper", "salt"}))
	assert.NotEqual(t, a, Key([]string{"salt pepper"}))
}
