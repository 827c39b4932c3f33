// Copyright (c) 2026 Byte. All rights reserved.

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bytefood/byte/internal/platform/ctxutil"
	"github.com/bytefood/byte/pkg/slug"
)

// Cache validity windows. The catalog changes rarely, so these lean long.
const (
	lookupCacheTTL = 1 * time.Hour
	listCacheTTL   = 15 * time.Minute
)

// Service implements catalog read use cases with cache-aside semantics.
type Service struct {
	foodRepository FoodRepository
	cache          Cache
}

// NewService constructs a new [Service]. A nil cache disables caching.
func NewService(repository FoodRepository, cache Cache) *Service {
	return &Service{
		foodRepository: repository,
		cache:          cache,
	}
}

/*
List returns the id+name projection of the full catalog.

Description: Cache-aside over the single well-known listing key. Cache
failures are logged and absorbed; the database remains authoritative.

Parameters:
  - context: context.Context

Returns:
  - []FoodSummary: All catalog rows ordered by name
  - error: Database retrieval failures
*/
func (service *Service) List(context context.Context) ([]FoodSummary, error) {

	// 1. Try the cache first
	if service.cache != nil {
		cached, err := service.cache.GetList(context)
		if err != nil {
			ctxutil.GetLogger(context).Warn("food_list_cache_read_failed", slog.Any("error", err))
		}
		if cached != nil {
			return cached, nil
		}
	}

	// 2. Fall through to the database
	summaries, err := service.foodRepository.List(context)
	if err != nil {
		return nil, fmt.Errorf("catalog_service_list_failed: %w", err)
	}

	// 3. Populate the cache for the next reader
	if service.cache != nil {
		if err := service.cache.SetList(context, summaries, listCacheTTL); err != nil {
			ctxutil.GetLogger(context).Warn("food_list_cache_write_failed", slog.Any("error", err))
		}
	}

	return summaries, nil
}

/*
Lookup resolves a (partial) food name to its full nutritional profile.

Description: The cache key is the slugified query, so "Chicken Breast"
and "chicken  breast" share an entry. Matching itself is delegated to the
repository's case-insensitive substring search.

Parameters:
  - context: context.Context
  - name: string

Returns:
  - *Food: Matched entity
  - error: apperr.NotFound when nothing matches, or database failures
*/
func (service *Service) Lookup(context context.Context, name string) (*Food, error) {

	cacheKey := slug.From(name)

	// 1. Try the cache first
	if service.cache != nil {
		cached, err := service.cache.GetFood(context, cacheKey)
		if err != nil {
			ctxutil.GetLogger(context).Warn("food_lookup_cache_read_failed", slog.Any("error", err))
		}
		if cached != nil {
			return cached, nil
		}
	}

	// 2. Fall through to the database
	food, err := service.foodRepository.FindByName(context, name)
	if err != nil {
		return nil, err
	}

	// 3. Populate the cache for the next reader
	if service.cache != nil {
		if err := service.cache.SetFood(context, cacheKey, food, lookupCacheTTL); err != nil {
			ctxutil.GetLogger(context).Warn("food_lookup_cache_write_failed", slog.Any("error", err))
		}
	}

	return food, nil
}

/*
Resolve returns the food with the given ID.

Description: Uncached primary-key read used by the journal when recording
consumption; those reads are far less frequent than name lookups.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Food: Hydrated entity
  - error: apperr.NotFound or database failures
*/
func (service *Service) Resolve(context context.Context, id string) (*Food, error) {
	return service.foodRepository.FindByID(context, id)
}
