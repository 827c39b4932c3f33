// Copyright (c) 2026 Byte. All rights reserved.

package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bytefood/byte/internal/platform/database/schema"
	"github.com/bytefood/byte/internal/platform/dberr"
)

// # Entry Repository

// PostgresEntryRepository implements the EntryRepository interface using pgx.
type PostgresEntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new PostgreSQL implementation of the EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *PostgresEntryRepository {
	return &PostgresEntryRepository{pool: pool}
}

/*
Create persists a new consumption entry into the foods.journal_entry table.

Parameters:
  - context: context.Context
  - entry: *Entry

Returns:
  - error: Foreign-key or execution failures
*/
func (repository *PostgresEntryRepository) Create(context context.Context, entry *Entry) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5)`,
		schema.FoodsJournalEntry.Table,
		schema.FoodsJournalEntry.ID, schema.FoodsJournalEntry.UserID, schema.FoodsJournalEntry.FoodID,
		schema.FoodsJournalEntry.WeightGrams, schema.FoodsJournalEntry.ConsumedAt)

	if entry.ConsumedAt.IsZero() {
		entry.ConsumedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		entry.ID,
		entry.UserID,
		entry.FoodID,
		entry.WeightGrams,
		entry.ConsumedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "create_journal_entry")
	}

	return nil
}

/*
ListBetween returns the user's entries within a half-open time window.

Description: Joins the catalog so each entry carries its food name; the
day view needs it and a second round-trip per entry would be wasteful.

Parameters:
  - context: context.Context
  - userID: string
  - from: time.Time (inclusive)
  - to: time.Time (exclusive)

Returns:
  - []Entry: Oldest first
  - error: Execution failures
*/
func (repository *PostgresEntryRepository) ListBetween(context context.Context, userID string, from, to time.Time) ([]Entry, error) {
	query := fmt.Sprintf(`
		SELECT e.%s, e.%s, e.%s, f.%s, e.%s, e.%s
		FROM %s e
		JOIN %s f ON f.%s = e.%s
		WHERE e.%s = $1 AND e.%s >= $2 AND e.%s < $3
		ORDER BY e.%s ASC`,
		schema.FoodsJournalEntry.ID, schema.FoodsJournalEntry.UserID, schema.FoodsJournalEntry.FoodID,
		schema.FoodsFood.Name, schema.FoodsJournalEntry.WeightGrams, schema.FoodsJournalEntry.ConsumedAt,
		schema.FoodsJournalEntry.Table,
		schema.FoodsFood.Table, schema.FoodsFood.ID, schema.FoodsJournalEntry.FoodID,
		schema.FoodsJournalEntry.UserID, schema.FoodsJournalEntry.ConsumedAt, schema.FoodsJournalEntry.ConsumedAt,
		schema.FoodsJournalEntry.ConsumedAt,
	)

	rows, err := repository.pool.Query(context, query, userID, from, to)
	if err != nil {
		return nil, dberr.Wrap(err, "list_journal_entries")
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.FoodID,
			&entry.FoodName,
			&entry.WeightGrams,
			&entry.ConsumedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "scan_journal_entry")
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_journal_entries_rows")
	}

	return entries, nil
}
