// Copyright (c) 2026 Byte. All rights reserved.

// Package schema centralizes table and column names for the Byte database.
//
// Repositories build their SQL from these definitions so a rename happens
// in exactly one place, next to the migration that performs it.
package schema

// UsersAccountTable represents the 'users.account' table
type UsersAccountTable struct {
	Table        string
	ID           string
	Email        string
	Name         string
	AvatarURL    string
	PasswordHash string
	GoogleID     string
	CreatedAt    string
	UpdatedAt    string
}

// UsersAccount is the schema definition for users.account
var UsersAccount = UsersAccountTable{
	Table:        "users.account",
	ID:           "id",
	Email:        "email",
	Name:         "name",
	AvatarURL:    "avatarurl",
	PasswordHash: "passwordhash",
	GoogleID:     "googleid",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
}

func (t UsersAccountTable) Columns() []string {
	return []string{t.ID, t.Email, t.Name, t.AvatarURL, t.PasswordHash, t.GoogleID, t.CreatedAt, t.UpdatedAt}
}
