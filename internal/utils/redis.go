package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient holds the redis connection backing the JWT logout blacklist.
// Blacklisted tokens are keyed until their own expiry, after which redis
// drops the key and the token is invalid anyway.
type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(redisURL string) (*RedisClient, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisClient{client: client}, nil
}

// BlacklistToken marks a token as logged out for ttl.
func (c *RedisClient) BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	return c.client.Set(ctx, blacklistKey(token), "1", ttl).Err()
}

// IsBlacklisted reports whether the token was logged out. Lookup failures
// count as not blacklisted: an unreachable redis must not lock every user
// out.
func (c *RedisClient) IsBlacklisted(ctx context.Context, token string) bool {
	count, err := c.client.Exists(ctx, blacklistKey(token)).Result()
	return err == nil && count > 0
}

func (c *RedisClient) Close() error {
	return c.client.Close()
}

func blacklistKey(token string) string {
	return fmt.Sprintf("blacklist:%s", token)
}
