package cache

import (
	"context"
	"sync"
	"time"

	"github.com/erp/sale-ebay/internal/application/integration"
)

// InMemoryImportLock serialises imports inside a single process.
// Expired locks are reclaimed by the next TryLock on the same key.
type InMemoryImportLock struct {
	mu    sync.Mutex
	held  map[string]time.Time
	clock func() time.Time
}

// NewInMemoryImportLock creates an empty lock table
func NewInMemoryImportLock() *InMemoryImportLock {
	return &InMemoryImportLock{
		held:  make(map[string]time.Time),
		clock: time.Now,
	}
}

// TryLock takes the lock for key unless an unexpired holder exists.
// A non-positive ttl never expires.
func (l *InMemoryImportLock) TryLock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if expiresAt, ok := l.held[key]; ok && (expiresAt.IsZero() || now.Before(expiresAt)) {
		return false, nil
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = now.Add(ttl)
	}
	l.held[key] = expiresAt
	return true, nil
}

// Unlock releases key
func (l *InMemoryImportLock) Unlock(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.held, key)
	l.mu.Unlock()
	return nil
}

// Close is a no-op; it lets the lock share shutdown code with RedisImportLock.
func (l *InMemoryImportLock) Close() error { return nil }

var _ integration.ImportLock = (*InMemoryImportLock)(nil)
