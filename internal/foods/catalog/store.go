// Copyright (c) 2026 Byte. All rights reserved.

package catalog

import (
	"context"
	"time"
)

// # Food Data Access

// FoodRepository defines the read contract over the food reference table.
type FoodRepository interface {

	/*
		List returns the id+name projection of every catalog row,
		ordered by name.

		Parameters:
		  - context: context.Context

		Returns:
		  - []FoodSummary: All rows
		  - error: Database retrieval failures
	*/
	List(context context.Context) ([]FoodSummary, error)

	/*
		FindByName returns the first food whose name contains the given
		fragment, case-insensitively.

		Parameters:
		  - context: context.Context
		  - name: string (partial or full food name)

		Returns:
		  - *Food: Hydrated entity with the full amino-acid profile
		  - error: apperr.NotFound or database errors
	*/
	FindByName(context context.Context, name string) (*Food, error)

	/*
		FindByID returns the food with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Food: Hydrated entity
		  - error: apperr.NotFound or database errors
	*/
	FindByID(context context.Context, id string) (*Food, error)
}

// # Cache Contract

// Cache is the read-through layer in front of the repository.
//
// Misses are soft; every method may fail without affecting correctness,
// only latency. A nil error with a nil result means "not cached".
type Cache interface {
	GetFood(context context.Context, key string) (*Food, error)
	SetFood(context context.Context, key string, food *Food, ttl time.Duration) error
	GetList(context context.Context) ([]FoodSummary, error)
	SetList(context context.Context, foods []FoodSummary, ttl time.Duration) error
}
