// Copyright (c) 2026 Byte. All rights reserved.

package catalog_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytefood/byte/internal/foods/catalog"
	"github.com/bytefood/byte/internal/platform/apperr"
)

// # In-Memory Fakes

type memoryFoodRepository struct {
	foods []catalog.Food
	reads int
}

func (repository *memoryFoodRepository) List(_ context.Context) ([]catalog.FoodSummary, error) {
	repository.reads++
	summaries := make([]catalog.FoodSummary, 0, len(repository.foods))
	for _, food := range repository.foods {
		summaries = append(summaries, catalog.FoodSummary{ID: food.ID, Name: food.Name})
	}
	return summaries, nil
}

func (repository *memoryFoodRepository) FindByName(_ context.Context, name string) (*catalog.Food, error) {
	repository.reads++
	fragment := strings.ToLower(name)
	for index := range repository.foods {
		if strings.Contains(strings.ToLower(repository.foods[index].Name), fragment) {
			copied := repository.foods[index]
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Food")
}

func (repository *memoryFoodRepository) FindByID(_ context.Context, id string) (*catalog.Food, error) {
	for index := range repository.foods {
		if repository.foods[index].ID == id {
			copied := repository.foods[index]
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("Food")
}

type memoryCache struct {
	foods map[string]*catalog.Food
	list  []catalog.FoodSummary
}

func newMemoryCache() *memoryCache {
	return &memoryCache{foods: make(map[string]*catalog.Food)}
}

func (cache *memoryCache) GetFood(_ context.Context, key string) (*catalog.Food, error) {
	return cache.foods[key], nil
}

func (cache *memoryCache) SetFood(_ context.Context, key string, food *catalog.Food, _ time.Duration) error {
	cache.foods[key] = food
	return nil
}

func (cache *memoryCache) GetList(_ context.Context) ([]catalog.FoodSummary, error) {
	return cache.list, nil
}

func (cache *memoryCache) SetList(_ context.Context, foods []catalog.FoodSummary, _ time.Duration) error {
	cache.list = foods
	return nil
}

func sampleFoods() []catalog.Food {
	return []catalog.Food{
		{ID: "f-1", Name: "Chicken Breast", Category: "poultry", AminoAcids: catalog.AminoAcids{Leucine: 2.65, Lysine: 2.82}},
		{ID: "f-2", Name: "Brown Rice", Category: "grain", AminoAcids: catalog.AminoAcids{Leucine: 0.62}},
	}
}

// # Tests

/*
TestLookup_CaseInsensitiveSubstring verifies that a lowercase fragment of
a food name resolves to the full profile.
*/
func TestLookup_CaseInsensitiveSubstring(t *testing.T) {
	repository := &memoryFoodRepository{foods: sampleFoods()}
	service := catalog.NewService(repository, nil)

	food, err := service.Lookup(context.Background(), "chicken")
	require.NoError(t, err)

	assert.Equal(t, "Chicken Breast", food.Name)
	assert.InDelta(t, 2.65, food.AminoAcids.Leucine, 0.001)
}

/*
TestLookup_NotFound verifies that an unmatched name yields NOT_FOUND.
*/
func TestLookup_NotFound(t *testing.T) {
	repository := &memoryFoodRepository{foods: sampleFoods()}
	service := catalog.NewService(repository, nil)

	_, err := service.Lookup(context.Background(), "dragonfruit")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestLookup_CacheAside verifies that a second lookup with an equivalent
spelling is served from the cache without touching the repository.
*/
func TestLookup_CacheAside(t *testing.T) {
	repository := &memoryFoodRepository{foods: sampleFoods()}
	cache := newMemoryCache()
	service := catalog.NewService(repository, cache)

	// 1. Cold read goes to the repository
	_, err := service.Lookup(context.Background(), "Chicken Breast")
	require.NoError(t, err)
	assert.Equal(t, 1, repository.reads)

	// 2. An equivalent spelling slugs to the same key and hits the cache
	food, err := service.Lookup(context.Background(), "  chicken   BREAST ")
	require.NoError(t, err)
	assert.Equal(t, "f-1", food.ID)
	assert.Equal(t, 1, repository.reads)
}

/*
TestList_CacheAside verifies that the listing is cached after the first read.
*/
func TestList_CacheAside(t *testing.T) {
	repository := &memoryFoodRepository{foods: sampleFoods()}
	cache := newMemoryCache()
	service := catalog.NewService(repository, cache)

	first, err := service.List(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 1, repository.reads)

	second, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repository.reads)
}
