// Copyright (c) 2026 Byte. All rights reserved.

/*
Package journal implements the per-user consumption log.

Authenticated users record what they ate and how much; the day view sums
the amino-acid intake by scaling each food's per-100g profile by the
recorded weight.
*/
package journal

import (
	"time"

	"github.com/bytefood/byte/internal/foods/catalog"
)

// # Domain Entities

// Entry is one recorded consumption event.
type Entry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	FoodID      string    `json:"food_id"`
	FoodName    string    `json:"food_name"`
	WeightGrams float64   `json:"weight_g"`
	ConsumedAt  time.Time `json:"consumed_at"`
}

// DayReport is the day view: the entries plus their summed intake.
type DayReport struct {
	Date    string             `json:"date"` // YYYY-MM-DD in the server's zone.
	Entries []Entry            `json:"entries"`
	Totals  catalog.AminoAcids `json:"totals_g"`
}

// # Field Identifiers

const (
	FieldFoodID = "food_id"
	FieldWeight = "weight_g"
)
