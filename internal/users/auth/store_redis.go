// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cartly/cartly/internal/platform/apperr"
	"github.com/cartly/cartly/internal/platform/constants"
)

// # Refresh Token Repository

// RedisRefreshTokenRepository implements RefreshTokenRepository using Redis.
//
// The key is derived from the userID, not the token: each user has at most one
// live refresh token, and issuing a new one overwrites (revokes) the previous.
type RedisRefreshTokenRepository struct {
	client *redis.Client
}

// NewRefreshTokenRepository creates a new Redis-backed RefreshTokenRepository.
func NewRefreshTokenRepository(client *redis.Client) *RedisRefreshTokenRepository {
	return &RedisRefreshTokenRepository{client: client}
}

/*
Set stores the live refresh token of a user with a TTL.

Parameters:
  - context: context.Context
  - userID: string
  - token: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisRefreshTokenRepository) Set(context context.Context, userID string, token string, ttl time.Duration) error {
	key := constants.RedisPrefixRefreshToken + userID

	if err := repository.client.Set(context, key, token, ttl).Err(); err != nil {
		return fmt.Errorf("redis_refresh_token_set_failed: %w", err)
	}

	return nil
}

/*
Get retrieves the live refresh token cached for a user.

Description: Returns apperr.NotFound if no session is live for the user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - string: Cached refresh token
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisRefreshTokenRepository) Get(context context.Context, userID string) (string, error) {
	key := constants.RedisPrefixRefreshToken + userID

	token, err := repository.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("No live session for this user")
		}
		return "", fmt.Errorf("redis_refresh_token_get_failed: %w", err)
	}

	return token, nil
}

/*
Delete removes the cached refresh token, terminating the session.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisRefreshTokenRepository) Delete(context context.Context, userID string) error {
	key := constants.RedisPrefixRefreshToken + userID

	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_refresh_token_delete_failed: %w", err)
	}

	return nil
}
