package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/erp/sale-ebay/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryImportLock_TryLock(t *testing.T) {
	ctx := context.Background()
	lock := NewInMemoryImportLock()

	t.Run("first caller wins", func(t *testing.T) {
		ok, err := lock.TryLock(ctx, "order-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = lock.TryLock(ctx, "order-1", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok, "lock is already held")
	})

	t.Run("keys are independent", func(t *testing.T) {
		ok, err := lock.TryLock(ctx, "order-2", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("unlock releases", func(t *testing.T) {
		require.NoError(t, lock.Unlock(ctx, "order-1"))
		ok, err := lock.TryLock(ctx, "order-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("unlocking a free key is a no-op", func(t *testing.T) {
		assert.NoError(t, lock.Unlock(ctx, "never-locked"))
	})
}

func TestInMemoryImportLock_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 10, 6, 9, 0, 0, 0, time.UTC)
	lock := NewInMemoryImportLock()
	lock.clock = func() time.Time { return now }

	ok, err := lock.TryLock(ctx, "order-1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	now = now.Add(59 * time.Second)
	ok, _ = lock.TryLock(ctx, "order-1", time.Minute)
	assert.False(t, ok)

	now = now.Add(time.Second)
	ok, _ = lock.TryLock(ctx, "order-1", time.Minute)
	assert.True(t, ok, "expired lock is reclaimed")

	ok, _ = lock.TryLock(ctx, "forever", 0)
	require.True(t, ok)
	now = now.Add(24 * time.Hour)
	ok, _ = lock.TryLock(ctx, "forever", 0)
	assert.False(t, ok, "zero ttl never expires")
}

func TestInMemoryImportLock_Concurrent(t *testing.T) {
	ctx := context.Background()
	lock := NewInMemoryImportLock()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := lock.TryLock(ctx, "order-1", time.Minute); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestImportLockFactory_Create(t *testing.T) {
	unreachable := config.RedisConfig{Host: "127.0.0.1", Port: 1}

	t.Run("disabled returns nil", func(t *testing.T) {
		lock, err := NewImportLockFactory(config.ImportConfig{LockEnabled: false}, unreachable).Create()
		require.NoError(t, err)
		assert.Nil(t, lock)
	})

	t.Run("memory backend", func(t *testing.T) {
		lock, err := NewImportLockFactory(config.ImportConfig{LockEnabled: true, LockBackend: "memory"}, unreachable).Create()
		require.NoError(t, err)
		assert.IsType(t, &InMemoryImportLock{}, lock)
		assert.NoError(t, lock.Close())
	})

	t.Run("falls back when redis is unreachable", func(t *testing.T) {
		lock, err := NewImportLockFactory(config.ImportConfig{LockEnabled: true, LockBackend: "redis"}, unreachable).Create()
		require.NoError(t, err)
		assert.IsType(t, &InMemoryImportLock{}, lock)
	})

	t.Run("fails without fallback", func(t *testing.T) {
		lock, err := NewImportLockFactory(
			config.ImportConfig{LockEnabled: true, LockBackend: "redis"},
			unreachable,
			WithInMemoryFallback(false),
		).Create()
		require.Error(t, err)
		assert.Nil(t, lock)
		assert.Contains(t, err.Error(), "redis required")
	})
}
