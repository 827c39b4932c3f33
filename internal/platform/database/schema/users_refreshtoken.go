// Copyright (c) 2026 Byte. All rights reserved.

package schema

// UsersRefreshTokenTable represents the 'users.refresh_token' table
type UsersRefreshTokenTable struct {
	Table     string
	Token     string
	UserID    string
	ExpiresAt string
	CreatedAt string
}

// UsersRefreshToken is the schema definition for users.refresh_token
var UsersRefreshToken = UsersRefreshTokenTable{
	Table:     "users.refresh_token",
	Token:     "token",
	UserID:    "userid",
	ExpiresAt: "expiresat",
	CreatedAt: "createdat",
}

func (t UsersRefreshTokenTable) Columns() []string {
	return []string{t.Token, t.UserID, t.ExpiresAt, t.CreatedAt}
}
