package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tryggaplatser/locator/internal/domain/repository"
	"github.com/tryggaplatser/locator/internal/pkg/errors"
)

type cacheRepository struct {
	redis  *Redis
	logger *zap.Logger
}

func NewCacheRepository(r *Redis, logger *zap.Logger) repository.CacheRepository {
	return &cacheRepository{
		redis:  r,
		logger: logger,
	}
}

func (c *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.redis.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return nil, errors.ErrCacheError
	}
	return data, nil
}

func (c *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.redis.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		return errors.ErrCacheError
	}
	return nil
}

func (c *cacheRepository) Delete(ctx context.Context, key string) error {
	if err := c.redis.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
		return errors.ErrCacheError
	}
	return nil
}
