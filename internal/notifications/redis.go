package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"internhub/internal/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const RedisQueueKey = "notifications:outbound"

// RedisDispatcher pushes notifications onto a Redis list so any instance
// running a RedisConsumer can deliver them.
type RedisDispatcher struct {
	rdb    *redis.Client
	key    string
	logger *zap.Logger
}

func NewRedisDispatcher(rdb *redis.Client, logger *zap.Logger) *RedisDispatcher {
	return &RedisDispatcher{rdb: rdb, key: RedisQueueKey, logger: logger}
}

func (d *RedisDispatcher) Dispatch(ctx context.Context, n Notification) {
	if !accept(d.logger, n) {
		return
	}
	data, err := json.Marshal(n)
	if err != nil {
		metrics.Notification(string(n.Kind), metrics.OutcomeFailed)
		d.logger.Error("failed to encode notification", zap.String("kind", string(n.Kind)), zap.Error(err))
		return
	}
	if err := d.rdb.LPush(ctx, d.key, data).Err(); err != nil {
		metrics.Notification(string(n.Kind), metrics.OutcomeFailed)
		d.logger.Error("failed to queue notification in redis",
			zap.String("id", n.ID),
			zap.String("kind", string(n.Kind)),
			zap.Error(err))
		return
	}
	metrics.Notification(string(n.Kind), metrics.OutcomeQueued)
}

type RedisConsumer struct {
	rdb        *redis.Client
	key        string
	deliverer  *Deliverer
	logger     *zap.Logger
	instanceID string
	block      time.Duration
	backoff    time.Duration
}

func NewRedisConsumer(rdb *redis.Client, deliverer *Deliverer, logger *zap.Logger) *RedisConsumer {
	return &RedisConsumer{
		rdb:        rdb,
		key:        RedisQueueKey,
		deliverer:  deliverer,
		logger:     logger,
		instanceID: uuid.New().String()[:8],
		block:      2 * time.Second,
		backoff:    time.Second,
	}
}

// Run pops and delivers notifications until ctx is cancelled.
func (c *RedisConsumer) Run(ctx context.Context) {
	c.logger.Info("redis notification consumer started",
		zap.String("instance", c.instanceID),
		zap.String("key", c.key))

	for {
		if ctx.Err() != nil {
			return
		}
		res, err := c.rdb.BRPop(ctx, c.block, c.key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Warn("redis pop failed", zap.String("instance", c.instanceID), zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.backoff):
			}
			continue
		}
		c.handle(ctx, res[1])
	}
}

func (c *RedisConsumer) handle(ctx context.Context, payload string) {
	var n Notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		c.logger.Error("failed to decode queued notification", zap.Error(err))
		return
	}
	c.deliverer.deliverAndLog(ctx, n)
}
