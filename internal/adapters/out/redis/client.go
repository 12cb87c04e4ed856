// Package redis holds the Redis-backed adapters: the connection wrapper and the
// delivery OTP store.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const keyNamespace = "fulfillment"

var errNotInitialized = errors.New("redis client not initialized")

type cmdable interface {
	Ping(context.Context) *goredis.StatusCmd
	Set(context.Context, string, any, time.Duration) *goredis.StatusCmd
	Get(context.Context, string) *goredis.StringCmd
	Del(context.Context, ...string) *goredis.IntCmd
}

// Client wraps the go-redis connection with the small surface the adapters need.
type Client struct {
	store cmdable
	raw   *goredis.Client
}

// New parses url, opens a pooled connection and verifies it with PING.
func New(ctx context.Context, url string) (*Client, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	raw := goredis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Client{store: raw, raw: raw}, nil
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if c.store == nil {
		return errNotInitialized
	}
	return c.store.Ping(ctx).Err()
}

// Set stores a value with an optional TTL.
func (c *Client) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c.store == nil {
		return errNotInitialized
	}
	return c.store.Set(ctx, key, value, ttl).Err()
}

// Get returns the string stored at key, or goredis.Nil when it is absent.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	if c.store == nil {
		return "", errNotInitialized
	}
	return c.store.Get(ctx, key).Result()
}

// Del removes keys.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	if c.store == nil {
		return errNotInitialized
	}
	return c.store.Del(ctx, keys...).Err()
}

// Close releases the connection pool.
func (c *Client) Close() error {
	if c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

// DeliveryOTPKey returns the namespaced key holding an order's delivery code hash.
func (c *Client) DeliveryOTPKey(orderID string) string {
	return buildKey("otp", "delivery", orderID)
}

func buildKey(parts ...string) string {
	return keyNamespace + ":" + strings.Join(parts, ":")
}
