// Package cache holds the Redis-backed implementations of the doctor
// specialization cache and the refresh-token revocation list.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	specializationsKey = "docbook:specializations"
	revokedPrefix      = "docbook:revoked:"

	DefaultSpecializationTTL = 5 * time.Minute
)

// Connect parses a redis:// URL and verifies the server answers PING.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

type Redis struct {
	client  *redis.Client
	specTTL time.Duration
	now     func() time.Time
}

func NewRedis(client *redis.Client, specTTL time.Duration) *Redis {
	if specTTL <= 0 {
		specTTL = DefaultSpecializationTTL
	}
	return &Redis{client: client, specTTL: specTTL, now: time.Now}
}

// GetSpecializations returns the cached list. The bool is false on a miss.
func (r *Redis) GetSpecializations(ctx context.Context) ([]string, bool, error) {
	raw, err := r.client.Get(ctx, specializationsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get specializations: %w", err)
	}

	var specs []string
	if err := json.Unmarshal(raw, &specs); err != nil {
		return nil, false, fmt.Errorf("decode specializations: %w", err)
	}
	return specs, true, nil
}

func (r *Redis) SetSpecializations(ctx context.Context, specs []string) error {
	if specs == nil {
		specs = []string{}
	}
	raw, err := json.Marshal(specs)
	if err != nil {
		return fmt.Errorf("encode specializations: %w", err)
	}
	if err := r.client.Set(ctx, specializationsKey, raw, r.specTTL).Err(); err != nil {
		return fmt.Errorf("set specializations: %w", err)
	}
	return nil
}

func (r *Redis) InvalidateSpecializations(ctx context.Context) error {
	if err := r.client.Del(ctx, specializationsKey).Err(); err != nil {
		return fmt.Errorf("invalidate specializations: %w", err)
	}
	return nil
}

// Revoke marks a token ID as revoked until the token would have expired
// anyway. Already-expired tokens are not stored.
func (r *Redis) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, revokedPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *Redis) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check revocation: %w", err)
	}
	return n > 0, nil
}
