package cache

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/butterfly/pkg/errors"
)

// RedisOptions configures a RedisCache.
type RedisOptions struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// RedisCache stores entries in Redis. Expiry is delegated to Redis TTLs.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection with PING.
func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	if err := errors.ValidateRedisAddr(opts.Addr); err != nil {
		return nil, err
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 5 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
		MaxRetries:  -1, // retried by RetryWithBackoff
	})

	err := RetryWithBackoff(ctx, func() error {
		return classify(client.Ping(ctx).Err())
	})
	if err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis at %s", opts.Addr)
	}
	return &RedisCache{client: client}, nil
}

// Get retrieves a value from Redis.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := RetryWithBackoff(ctx, func() error {
		var err error
		data, err = c.client.Get(ctx, key).Bytes()
		return classify(err)
	})
	if stderrors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeNetwork, err, "redis get %s", key)
	}
	return data, true, nil
}

// Set stores a value. A zero ttl stores without expiry.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := RetryWithBackoff(ctx, func() error {
		return classify(c.client.Set(ctx, key, data, ttl).Err())
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "redis set %s", key)
	}
	return nil
}

// Delete removes a value from Redis.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	err := RetryWithBackoff(ctx, func() error {
		return classify(c.client.Del(ctx, key).Err())
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "redis del %s", key)
	}
	return nil
}

// Clear deletes every key starting with one of the prefixes and returns
// how many were removed.
func (c *RedisCache) Clear(ctx context.Context, prefixes ...string) (int, error) {
	removed := 0
	for _, prefix := range prefixes {
		iter := c.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
		for iter.Next(ctx) {
			if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
				return removed, errors.Wrap(errors.ErrCodeNetwork, err, "redis del %s", iter.Val())
			}
			removed++
		}
		if err := iter.Err(); err != nil {
			return removed, errors.Wrap(errors.ErrCodeNetwork, err, "redis scan %s*", prefix)
		}
	}
	return removed, nil
}

// Close closes the underlying connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// classify marks transport failures as retryable. redis.Nil and server
// replies pass through unchanged.
func classify(err error) error {
	if err == nil || stderrors.Is(err, redis.Nil) {
		return err
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) || stderrors.Is(err, redis.ErrClosed) {
		return Retryable(fmt.Errorf("%w: %w", ErrNetwork, err))
	}
	return err
}

var _ Cache = (*RedisCache)(nil)
