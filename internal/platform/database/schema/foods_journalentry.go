// Copyright (c) 2026 Byte. All rights reserved.

package schema

// FoodsJournalEntryTable represents the 'foods.journal_entry' table
type FoodsJournalEntryTable struct {
	Table       string
	ID          string
	UserID      string
	FoodID      string
	WeightGrams string
	ConsumedAt  string
}

// FoodsJournalEntry is the schema definition for foods.journal_entry
var FoodsJournalEntry = FoodsJournalEntryTable{
	Table:       "foods.journal_entry",
	ID:          "id",
	UserID:      "userid",
	FoodID:      "foodid",
	WeightGrams: "weightgrams",
	ConsumedAt:  "consumedat",
}

func (t FoodsJournalEntryTable) Columns() []string {
	return []string{t.ID, t.UserID, t.FoodID, t.WeightGrams, t.ConsumedAt}
}
