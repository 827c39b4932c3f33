// Copyright (c) 2026 Byte. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bytefood/byte/internal/platform/apperr"
	"github.com/bytefood/byte/internal/platform/database/schema"
	"github.com/bytefood/byte/internal/platform/dberr"
)

// # Food Repository

// PostgresFoodRepository implements the FoodRepository interface using pgx.
//
// The amino-acid profile is stored as a single JSONB column; the profile
// is always read and written whole, so flattening it into twenty numeric
// columns would buy nothing.
type PostgresFoodRepository struct {
	pool *pgxpool.Pool
}

// NewFoodRepository creates a new PostgreSQL implementation of the FoodRepository.
func NewFoodRepository(pool *pgxpool.Pool) *PostgresFoodRepository {
	return &PostgresFoodRepository{pool: pool}
}

/*
List returns the id+name projection of the whole catalog.

Parameters:
  - context: context.Context

Returns:
  - []FoodSummary: Rows ordered by name
  - error: Execution errors
*/
func (repository *PostgresFoodRepository) List(context context.Context) ([]FoodSummary, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s ORDER BY %s ASC`,
		schema.FoodsFood.ID, schema.FoodsFood.Name,
		schema.FoodsFood.Table, schema.FoodsFood.Name)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_foods")
	}
	defer rows.Close()

	summaries := []FoodSummary{}
	for rows.Next() {
		var summary FoodSummary
		if err := rows.Scan(&summary.ID, &summary.Name); err != nil {
			return nil, dberr.Wrap(err, "scan_food_summary")
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_foods_rows")
	}

	return summaries, nil
}

/*
FindByName resolves a partial name to the first matching catalog row.

Description: Case-insensitive substring matching via ILIKE, with the
shortest (most exact) name winning among matches.

Parameters:
  - context: context.Context
  - name: string

Returns:
  - *Food: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresFoodRepository) FindByName(context context.Context, name string) (*Food, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s ILIKE '%%' || $1 || '%%'
		ORDER BY length(%s)
		LIMIT 1`,
		schema.FoodsFood.ID, schema.FoodsFood.Name, schema.FoodsFood.Category, schema.FoodsFood.AminoAcids,
		schema.FoodsFood.Table,
		schema.FoodsFood.Name,
		schema.FoodsFood.Name,
	)

	return repository.scanOne(context, query, name, fmt.Sprintf("Food %q", name))
}

/*
FindByID retrieves a catalog row by primary key.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Food: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresFoodRepository) FindByID(context context.Context, id string) (*Food, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.FoodsFood.ID, schema.FoodsFood.Name, schema.FoodsFood.Category, schema.FoodsFood.AminoAcids,
		schema.FoodsFood.Table, schema.FoodsFood.ID)

	return repository.scanOne(context, query, id, "Food")
}

// scanOne hydrates a single food row, decoding the JSONB profile.
func (repository *PostgresFoodRepository) scanOne(context context.Context, query string, arg any, resource string) (*Food, error) {
	food := &Food{}
	var profile []byte

	err := repository.pool.QueryRow(context, query, arg).Scan(
		&food.ID,
		&food.Name,
		&food.Category,
		&profile,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(resource)
		}
		return nil, dberr.Wrap(err, "find_food")
	}

	if err := json.Unmarshal(profile, &food.AminoAcids); err != nil {
		return nil, fmt.Errorf("postgres_food_repo_profile_decode_failed: %w", err)
	}

	return food, nil
}
