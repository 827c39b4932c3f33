// Copyright (c) 2026 Byte. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bytefood/byte/internal/platform/constants"
)

// # Redis Cache

// RedisCache implements the Cache contract on top of go-redis.
//
// Entries carry a TTL rather than being invalidated: the catalog only
// changes through migrations, so briefly stale reads are acceptable.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a catalog cache backed by the given Redis client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

/*
GetFood returns the cached food under the given slug key.

Returns:
  - *Food: Cached entity, nil on a miss
  - error: Transport or decode failures (treated as misses by callers)
*/
func (cache *RedisCache) GetFood(context context.Context, key string) (*Food, error) {
	payload, err := cache.client.Get(context, constants.RedisPrefixFoodLookup+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_food_cache_get_failed: %w", err)
	}

	food := &Food{}
	if err := json.Unmarshal(payload, food); err != nil {
		return nil, fmt.Errorf("redis_food_cache_decode_failed: %w", err)
	}

	return food, nil
}

// SetFood stores a food under the given slug key with a TTL.
func (cache *RedisCache) SetFood(context context.Context, key string, food *Food, ttl time.Duration) error {
	payload, err := json.Marshal(food)
	if err != nil {
		return fmt.Errorf("redis_food_cache_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, constants.RedisPrefixFoodLookup+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_food_cache_set_failed: %w", err)
	}

	return nil
}

/*
GetList returns the cached id+name listing.

Returns:
  - []FoodSummary: Cached listing, nil on a miss
  - error: Transport or decode failures
*/
func (cache *RedisCache) GetList(context context.Context) ([]FoodSummary, error) {
	payload, err := cache.client.Get(context, constants.RedisPrefixFoodList).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_food_cache_get_list_failed: %w", err)
	}

	var summaries []FoodSummary
	if err := json.Unmarshal(payload, &summaries); err != nil {
		return nil, fmt.Errorf("redis_food_cache_decode_list_failed: %w", err)
	}

	return summaries, nil
}

// SetList stores the id+name listing with a TTL.
func (cache *RedisCache) SetList(context context.Context, foods []FoodSummary, ttl time.Duration) error {
	payload, err := json.Marshal(foods)
	if err != nil {
		return fmt.Errorf("redis_food_cache_encode_list_failed: %w", err)
	}

	if err := cache.client.Set(context, constants.RedisPrefixFoodList, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_food_cache_set_list_failed: %w", err)
	}

	return nil
}
