package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/erp/sale-ebay/internal/application/integration"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultLockPrefix = "sale:ebay:import:"

// releaseScript deletes the lock only while it still holds our token, so an
// expired lock taken over by another instance is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisImportLock serialises imports across instances with SET NX PX.
type RedisImportLock struct {
	client    redis.UniversalClient
	keyPrefix string

	mu     sync.Mutex
	tokens map[string]string
}

// NewRedisImportLock connects to Redis and verifies the connection.
func NewRedisImportLock(cfg RedisConfig) (*RedisImportLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisImportLockWithClient(client, ""), nil
}

// NewRedisImportLockWithClient wraps an existing client
func NewRedisImportLockWithClient(client redis.UniversalClient, keyPrefix string) *RedisImportLock {
	if keyPrefix == "" {
		keyPrefix = defaultLockPrefix
	}
	return &RedisImportLock{
		client:    client,
		keyPrefix: keyPrefix,
		tokens:    make(map[string]string),
	}
}

// TryLock takes the lock for key if nobody holds it. It reports false
// without error when the lock is held elsewhere.
func (l *RedisImportLock) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.keyPrefix+key, token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire import lock %s: %w", key, err)
	}
	if ok {
		l.mu.Lock()
		l.tokens[key] = token
		l.mu.Unlock()
	}
	return ok, nil
}

// Unlock releases a lock taken by this instance. Releasing a lock that
// is not held is a no-op.
func (l *RedisImportLock) Unlock(ctx context.Context, key string) error {
	l.mu.Lock()
	token, ok := l.tokens[key]
	delete(l.tokens, key)
	l.mu.Unlock()
	if !ok {
		return nil
	}

	if err := releaseScript.Run(ctx, l.client, []string{l.keyPrefix + key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to release import lock %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis client
func (l *RedisImportLock) Close() error {
	return l.client.Close()
}

var _ integration.ImportLock = (*RedisImportLock)(nil)
