package cache

import (
	"fmt"

	"github.com/erp/sale-ebay/internal/application/integration"
	"github.com/erp/sale-ebay/internal/infrastructure/config"
	"go.uber.org/zap"
)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// ClosableImportLock is an import lock owning resources that need releasing
type ClosableImportLock interface {
	integration.ImportLock
	Close() error
}

// ImportLockFactory builds the import lock selected by configuration
type ImportLockFactory struct {
	importConfig          config.ImportConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ImportLockFactoryOption is a functional option for configuring the factory
type ImportLockFactoryOption func(*ImportLockFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ImportLockFactoryOption {
	return func(f *ImportLockFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to the
// in-process lock. Default is true.
func WithInMemoryFallback(allow bool) ImportLockFactoryOption {
	return func(f *ImportLockFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewImportLockFactory creates a new factory
func NewImportLockFactory(importCfg config.ImportConfig, redisCfg config.RedisConfig, opts ...ImportLockFactoryOption) *ImportLockFactory {
	f := &ImportLockFactory{
		importConfig:          importCfg,
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns the configured lock, or nil when locking is disabled.
func (f *ImportLockFactory) Create() (ClosableImportLock, error) {
	if !f.importConfig.LockEnabled {
		return nil, nil
	}
	if f.importConfig.LockBackend != "redis" {
		f.logger.Info("using in-memory import lock")
		return NewInMemoryImportLock(), nil
	}

	lock, err := NewRedisImportLock(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.logger.Info("using Redis import lock", zap.String("addr", f.redisConfig.Addr()))
		return lock, nil
	}
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for import lock but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory import lock. "+
		"Concurrent imports on other instances are not serialised.",
		zap.Error(err),
	)
	return NewInMemoryImportLock(), nil
}
