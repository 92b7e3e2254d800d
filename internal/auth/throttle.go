// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/sessiongate/internal/platform/constants"
)

// # Login Attempt Throttling

// AttemptLimiter decides whether another login attempt is allowed for a key
// (normally the client IP).
type AttemptLimiter interface {

	/*
		Allow records one attempt for key and reports whether it is within budget.

		Returns:
		  - bool: false once the window's limit has been exceeded
		  - error: backend failures; callers decide whether to fail open
	*/
	Allow(context context.Context, key string) (bool, error)
}

// NopAttemptLimiter allows every attempt. It is used when Redis is not configured.
type NopAttemptLimiter struct{}

// Allow implements [AttemptLimiter].
func (NopAttemptLimiter) Allow(context.Context, string) (bool, error) { return true, nil }

// RedisAttemptLimiter counts attempts in a fixed window per key.
//
// Every attempt increments the counter and sets its TTL with EXPIRE NX in the
// same transaction. NX leaves an existing TTL alone, so the window does not
// slide, and a counter can never be left without one.
type RedisAttemptLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewRedisAttemptLimiter builds a limiter allowing limit attempts per window.
func NewRedisAttemptLimiter(client *redis.Client, limit int, window time.Duration) (*RedisAttemptLimiter, error) {
	if client == nil {
		return nil, errors.New("auth: redis client is required")
	}
	if limit <= 0 || window <= 0 {
		return nil, fmt.Errorf("auth: invalid attempt budget %d per %s", limit, window)
	}

	return &RedisAttemptLimiter{client: client, limit: int64(limit), window: window}, nil
}

// Allow implements [AttemptLimiter].
func (limiter *RedisAttemptLimiter) Allow(context context.Context, key string) (bool, error) {
	redisKey := constants.RedisPrefixLoginAttempt + key

	var count *redis.IntCmd
	_, err := limiter.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		count = pipe.Incr(context, redisKey)
		pipe.ExpireNX(context, redisKey, limiter.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("auth_limiter_count_failed: %w", err)
	}

	return count.Val() <= limiter.limit, nil
}
