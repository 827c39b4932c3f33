// Copyright (c) 2026 Byte. All rights reserved.

package journal

import (
	"context"
	"time"
)

// # Journal Data Access

// EntryRepository defines the data access contract for consumption entries.
type EntryRepository interface {

	/*
		Create persists a new consumption entry.

		Parameters:
		  - context: context.Context
		  - entry: *Entry

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, entry *Entry) error

	/*
		ListBetween returns the user's entries with consumed_at in
		[from, to), oldest first.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - from: time.Time (inclusive)
		  - to: time.Time (exclusive)

		Returns:
		  - []Entry: Hydrated entries including the food name
		  - error: Database retrieval failures
	*/
	ListBetween(context context.Context, userID string, from, to time.Time) ([]Entry, error)
}
