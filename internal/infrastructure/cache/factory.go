package cache

import (
	"fmt"

	"github.com/comercial/backend/internal/domain/shared"
	"github.com/comercial/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdempotencyStore builds the idempotency store selected by
// cache.backend. When Redis is configured but unreachable the store falls
// back to in-memory so that reservation creation keeps working, at the cost
// of dedup state not being shared across instances.
func NewIdempotencyStore(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, logger *zap.Logger) (shared.IdempotencyStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cacheCfg.Backend {
	case "redis":
		store, err := NewRedisIdempotencyStore(redisCfg)
		if err != nil {
			logger.Warn("redis idempotency store unavailable, falling back to in-memory",
				zap.String("addr", redisCfg.Addr()),
				zap.Error(err),
			)
			return NewInMemoryIdempotencyStore(), nil
		}
		logger.Info("using redis idempotency store", zap.String("addr", redisCfg.Addr()))
		return store, nil

	case "memory":
		return NewInMemoryIdempotencyStore(), nil

	default:
		return nil, fmt.Errorf("unknown cache backend %q", cacheCfg.Backend)
	}
}
