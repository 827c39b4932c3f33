// Copyright (c) 2026 Byte. All rights reserved.

package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/bytefood/byte/internal/foods/catalog"
	"github.com/bytefood/byte/pkg/uuid"
)

// # Contracts

// FoodResolver resolves food IDs against the catalog.
type FoodResolver interface {
	Resolve(context context.Context, id string) (*catalog.Food, error)
}

// Service implements the consumption journal use cases.
type Service struct {
	entryRepository EntryRepository
	foods           FoodResolver
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(repository EntryRepository, foods FoodResolver) *Service {
	return &Service{
		entryRepository: repository,
		foods:           foods,
	}
}

// AddInput holds the data for one consumption record.
type AddInput struct {
	UserID      string
	FoodID      string
	WeightGrams float64
}

/*
Add records a consumption event for the user.

Description: The food is resolved first so an unknown ID fails with a
clean NOT_FOUND instead of a raw foreign-key violation, and so the entry
can echo the food name back immediately.

Parameters:
  - context: context.Context
  - input: AddInput

Returns:
  - *Entry: Persisted entry with the food name attached
  - error: apperr.NotFound for unknown foods, or storage failures
*/
func (service *Service) Add(context context.Context, input AddInput) (*Entry, error) {

	food, err := service.foods.Resolve(context, input.FoodID)
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:          uuid.New(),
		UserID:      input.UserID,
		FoodID:      food.ID,
		FoodName:    food.Name,
		WeightGrams: input.WeightGrams,
		ConsumedAt:  time.Now(),
	}

	if err := service.entryRepository.Create(context, entry); err != nil {
		return nil, fmt.Errorf("journal_service_add_failed: %w", err)
	}

	return entry, nil
}

/*
Today builds the day view for the user's local calendar day.

Description: Totals scale each food's per-100g amino profile linearly by
the recorded weight. That linearity is an approximation the product has
always accepted.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *DayReport: Entries plus summed amino-acid totals
  - error: Storage or catalog failures
*/
func (service *Service) Today(context context.Context, userID string) (*DayReport, error) {

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	entries, err := service.entryRepository.ListBetween(context, userID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("journal_service_today_failed: %w", err)
	}

	report := &DayReport{
		Date:    dayStart.Format("2006-01-02"),
		Entries: entries,
	}

	// Sum the intake, scaling each profile by consumed weight / 100g.
	for _, entry := range entries {
		food, err := service.foods.Resolve(context, entry.FoodID)
		if err != nil {
			// A food deleted after being journaled should not sink the
			// whole report; its weight simply stops counting.
			continue
		}
		report.Totals.Add(food.AminoAcids, entry.WeightGrams/100.0)
	}

	return report, nil
}
