// Copyright (c) 2026 Byte. All rights reserved.

package schema

// FoodsFoodTable represents the 'foods.food' table
type FoodsFoodTable struct {
	Table      string
	ID         string
	Name       string
	Category   string
	AminoAcids string
}

// FoodsFood is the schema definition for foods.food
var FoodsFood = FoodsFoodTable{
	Table:      "foods.food",
	ID:         "id",
	Name:       "name",
	Category:   "category",
	AminoAcids: "aminoacids",
}

func (t FoodsFoodTable) Columns() []string {
	return []string{t.ID, t.Name, t.Category, t.AminoAcids}
}
