package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tryggaplatser/locator/internal/domain/repository"
	"github.com/tryggaplatser/locator/internal/pkg/errors"
)

// stateRepository keeps per-device navigation state in a redis hash.
// Keys are written individually and never expire, matching the retention
// behaviour of browser local storage the clients previously relied on.
type stateRepository struct {
	redis  *Redis
	logger *zap.Logger
}

func NewStateRepository(r *Redis, logger *zap.Logger) repository.StateRepository {
	return &stateRepository{
		redis:  r,
		logger: logger,
	}
}

func stateKey(deviceID string) string {
	return "nav:state:" + deviceID
}

func (s *stateRepository) Get(ctx context.Context, deviceID, key string) (string, error) {
	val, err := s.redis.client.HGet(ctx, stateKey(deviceID), key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		s.logger.Warn("state get failed",
			zap.String("device_id", deviceID),
			zap.String("key", key),
			zap.Error(err),
		)
		return "", errors.ErrStateError
	}
	return val, nil
}

func (s *stateRepository) Set(ctx context.Context, deviceID, key, value string) error {
	if err := s.redis.client.HSet(ctx, stateKey(deviceID), key, value).Err(); err != nil {
		s.logger.Warn("state set failed",
			zap.String("device_id", deviceID),
			zap.String("key", key),
			zap.Error(err),
		)
		return errors.ErrStateError
	}
	return nil
}
