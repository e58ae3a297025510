package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const progressKeyTTL = 24 * time.Hour

// RedisProgressStore keeps the live percentage of running imports.
type RedisProgressStore struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewRedisProgressStore(client *redis.Client, logger *logrus.Logger) *RedisProgressStore {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &RedisProgressStore{client: client, logger: logger}
}

func ProgressKey(sessionCode string) string {
	return fmt.Sprintf("import:progress:%s", sessionCode)
}

// Set stores percent for the session.
func (s *RedisProgressStore) Set(ctx context.Context, sessionCode string, percent int) error {
	return s.client.Set(ctx, ProgressKey(sessionCode), percent, progressKeyTTL).Err()
}

// Get returns the stored percentage. ok is false when nothing was recorded.
func (s *RedisProgressStore) Get(ctx context.Context, sessionCode string) (percent int, ok bool, err error) {
	val, err := s.client.Get(ctx, ProgressKey(sessionCode)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	percent, err = strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("invalid progress value %q: %w", val, err)
	}
	return percent, true, nil
}

// Reporter returns a ProgressFunc that publishes to Redis. Write failures are
// logged and never interrupt the import.
func (s *RedisProgressStore) Reporter(ctx context.Context, sessionCode string) ProgressFunc {
	ctx = context.WithoutCancel(ctx)
	return func(percent int) {
		if err := s.Set(ctx, sessionCode, percent); err != nil {
			s.logger.WithFields(logrus.Fields{
				"session": sessionCode,
				"percent": percent,
				"error":   err.Error(),
			}).Warn("Failed to publish import progress")
		}
	}
}
