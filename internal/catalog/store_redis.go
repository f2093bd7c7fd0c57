// Copyright (c) 2026 Cartly. All rights reserved.
// Author: eng@cartly.sh

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cartly/cartly/internal/platform/apperr"
	"github.com/cartly/cartly/internal/platform/constants"
)

// # Featured Products Cache

// RedisFeaturedCache implements FeaturedCache using Redis.
//
// The whole featured list is stored as a single JSON value under one key.
// Invalidation is a single DEL, so curation changes are visible immediately.
type RedisFeaturedCache struct {
	client *redis.Client
}

// NewFeaturedCache creates a new Redis-backed FeaturedCache.
func NewFeaturedCache(client *redis.Client) *RedisFeaturedCache {
	return &RedisFeaturedCache{client: client}
}

/*
Get returns the cached featured list.

Description: Returns apperr.NotFound on a cache miss so the service can fall
through to the database.

Parameters:
  - context: context.Context

Returns:
  - []Product: Cached snapshot
  - error: apperr.NotFound or connectivity errors
*/
func (cache *RedisFeaturedCache) Get(context context.Context) ([]Product, error) {
	payload, err := cache.client.Get(context, constants.RedisKeyFeatured).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Featured products not cached")
		}
		return nil, fmt.Errorf("redis_featured_cache_get_failed: %w", err)
	}

	var products []Product
	if err := json.Unmarshal(payload, &products); err != nil {
		return nil, fmt.Errorf("redis_featured_cache_decode_failed: %w", err)
	}

	return products, nil
}

/*
Set stores a featured list snapshot with a TTL.

Parameters:
  - context: context.Context
  - products: []Product
  - ttl: time.Duration

Returns:
  - error: Encoding or storage failures
*/
func (cache *RedisFeaturedCache) Set(context context.Context, products []Product, ttl time.Duration) error {
	payload, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("redis_featured_cache_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, constants.RedisKeyFeatured, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_featured_cache_set_failed: %w", err)
	}

	return nil
}

/*
Invalidate drops the cached snapshot after a catalog mutation.

Parameters:
  - context: context.Context

Returns:
  - error: Deletion failures
*/
func (cache *RedisFeaturedCache) Invalidate(context context.Context) error {
	if err := cache.client.Del(context, constants.RedisKeyFeatured).Err(); err != nil {
		return fmt.Errorf("redis_featured_cache_invalidate_failed: %w", err)
	}

	return nil
}
