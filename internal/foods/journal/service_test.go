// Copyright (c) 2026 Byte. All rights reserved.

package journal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytefood/byte/internal/foods/catalog"
	"github.com/bytefood/byte/internal/foods/journal"
	"github.com/bytefood/byte/internal/platform/apperr"
)

// # In-Memory Fakes

type memoryEntryRepository struct {
	entries []journal.Entry
}

func (repository *memoryEntryRepository) Create(_ context.Context, entry *journal.Entry) error {
	repository.entries = append(repository.entries, *entry)
	return nil
}

func (repository *memoryEntryRepository) ListBetween(_ context.Context, userID string, from, to time.Time) ([]journal.Entry, error) {
	matched := []journal.Entry{}
	for _, entry := range repository.entries {
		inWindow := !entry.ConsumedAt.Before(from) && entry.ConsumedAt.Before(to)
		if entry.UserID == userID && inWindow {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

type stubFoodResolver struct {
	foods map[string]*catalog.Food
}

func (resolver *stubFoodResolver) Resolve(_ context.Context, id string) (*catalog.Food, error) {
	food, found := resolver.foods[id]
	if !found {
		return nil, apperr.NotFound("Food")
	}
	return food, nil
}

func newResolver() *stubFoodResolver {
	return &stubFoodResolver{foods: map[string]*catalog.Food{
		"f-1": {ID: "f-1", Name: "Chicken Breast", AminoAcids: catalog.AminoAcids{Leucine: 2.0, Lysine: 3.0}},
		"f-2": {ID: "f-2", Name: "Brown Rice", AminoAcids: catalog.AminoAcids{Leucine: 0.5}},
	}}
}

// # Tests

/*
TestAdd_RecordsEntry verifies that a consumption event is persisted with
the resolved food name.
*/
func TestAdd_RecordsEntry(t *testing.T) {
	repository := &memoryEntryRepository{}
	service := journal.NewService(repository, newResolver())

	entry, err := service.Add(context.Background(), journal.AddInput{
		UserID:      "user-1",
		FoodID:      "f-1",
		WeightGrams: 150,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "Chicken Breast", entry.FoodName)
	assert.Len(t, repository.entries, 1)
}

/*
TestAdd_UnknownFood verifies that an unknown food ID fails with NOT_FOUND
and records nothing.
*/
func TestAdd_UnknownFood(t *testing.T) {
	repository := &memoryEntryRepository{}
	service := journal.NewService(repository, newResolver())

	_, err := service.Add(context.Background(), journal.AddInput{
		UserID:      "user-1",
		FoodID:      "missing",
		WeightGrams: 100,
	})

	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	assert.Empty(t, repository.entries)
}

/*
TestToday_ScalesTotalsLinearly verifies that the day totals scale each
per-100g profile by the consumed weight and sum across entries.
*/
func TestToday_ScalesTotalsLinearly(t *testing.T) {
	repository := &memoryEntryRepository{}
	service := journal.NewService(repository, newResolver())
	ctx := context.Background()

	// 200g of chicken and 100g of rice
	_, err := service.Add(ctx, journal.AddInput{UserID: "user-1", FoodID: "f-1", WeightGrams: 200})
	require.NoError(t, err)
	_, err = service.Add(ctx, journal.AddInput{UserID: "user-1", FoodID: "f-2", WeightGrams: 100})
	require.NoError(t, err)

	// An entry from another user must not leak in
	_, err = service.Add(ctx, journal.AddInput{UserID: "user-2", FoodID: "f-1", WeightGrams: 500})
	require.NoError(t, err)

	report, err := service.Today(ctx, "user-1")
	require.NoError(t, err)

	require.Len(t, report.Entries, 2)
	// Leucine: 2.0 * 2.0 + 0.5 * 1.0 = 4.5; Lysine: 3.0 * 2.0 = 6.0
	assert.InDelta(t, 4.5, report.Totals.Leucine, 0.0001)
	assert.InDelta(t, 6.0, report.Totals.Lysine, 0.0001)
	assert.Equal(t, time.Now().Format("2006-01-02"), report.Date)
}

/*
TestToday_EmptyDay verifies that a day with no entries yields an empty
report with zero totals, not an error.
*/
func TestToday_EmptyDay(t *testing.T) {
	service := journal.NewService(&memoryEntryRepository{}, newResolver())

	report, err := service.Today(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Empty(t, report.Entries)
	assert.Zero(t, report.Totals.Leucine)
}
