// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores verification entries in Redis, relying on key expiry for
// the TTL semantics. Suitable for multi-instance deployments.
type RedisCache struct {
	client *redis.Client
}

var _ Cache = (*RedisCache)(nil)

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(ctx context.Context, addr, password string, db int) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Close releases the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) SaveRegistration(ctx context.Context, email, code string, pending *PendingRegistration) error {
	payload, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("failed to marshal pending registration: %w", err)
	}

	if err := c.client.Set(ctx, codePrefix+email, code, CodeTTL).Err(); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	if err := c.client.Set(ctx, pendingPrefix+email, payload, CodeTTL).Err(); err != nil {
		return fmt.Errorf("failed to store pending registration: %w", err)
	}
	return nil
}

func (c *RedisCache) VerifyRegistration(ctx context.Context, email, code string) (*PendingRegistration, error) {
	stored, err := c.client.Get(ctx, codePrefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCodeMismatch
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get verification code: %w", err)
	}
	if stored != code {
		return nil, ErrCodeMismatch
	}

	payload, err := c.client.Get(ctx, pendingPrefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCodeMismatch
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending registration: %w", err)
	}

	var pending PendingRegistration
	if err := json.Unmarshal([]byte(payload), &pending); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending registration: %w", err)
	}

	c.client.Del(ctx, codePrefix+email, pendingPrefix+email)

	return &pending, nil
}

func (c *RedisCache) SaveRecovery(ctx context.Context, email, code string) error {
	if err := c.client.Set(ctx, codePrefix+email, code, CodeTTL).Err(); err != nil {
		return fmt.Errorf("failed to store recovery code: %w", err)
	}
	return nil
}

func (c *RedisCache) VerifyRecovery(ctx context.Context, email, code string) error {
	stored, err := c.client.Get(ctx, codePrefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCodeMismatch
	}
	if err != nil {
		return fmt.Errorf("failed to get recovery code: %w", err)
	}
	if stored != code {
		return ErrCodeMismatch
	}

	if err := c.client.Set(ctx, recoveryPrefix+email, "1", ApprovalTTL).Err(); err != nil {
		return fmt.Errorf("failed to store recovery approval: %w", err)
	}
	c.client.Del(ctx, codePrefix+email)

	return nil
}

func (c *RedisCache) CheckRecovery(ctx context.Context, email string) (bool, error) {
	exists, err := c.client.Exists(ctx, recoveryPrefix+email).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check recovery approval: %w", err)
	}
	return exists > 0, nil
}

func (c *RedisCache) ConsumeRecovery(ctx context.Context, email string) error {
	if err := c.client.Del(ctx, recoveryPrefix+email).Err(); err != nil {
		return fmt.Errorf("failed to delete recovery approval: %w", err)
	}
	return nil
}
