// Copyright (c) 2026 Byte. All rights reserved.

package auth

import (
	"context"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given canonical email.

		Parameters:
		  - context: context.Context
		  - email: string (already trimmed and lowercased)

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.UserExists on a duplicate email, or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		AttachGoogleIdentity links a Google subject (and avatar) to an
		existing account, enabling Google Sign-In for it.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - googleID: string
		  - avatar: string

		Returns:
		  - error: Persistence failures
	*/
	AttachGoogleIdentity(context context.Context, userID, googleID, avatar string) error
}

// # Session Ledger

// RefreshTokenRepository is the server-side ledger of live refresh tokens.
//
// A token is valid if and only if its row exists and has not expired.
// Expired rows are removed lazily when they are read.
type RefreshTokenRepository interface {

	/*
		Create inserts a new ledger row for an authenticated login.

		Parameters:
		  - context: context.Context
		  - token: *RefreshToken

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, token *RefreshToken) error

	/*
		FindValid returns the live ledger row for the given opaque token.
		An expired row is deleted on read and reported as not found.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - *RefreshToken: Hydrated row
		  - error: dberr.ErrNotFound for missing or expired tokens
	*/
	FindValid(context context.Context, token string) (*RefreshToken, error)

	/*
		Delete removes a specific ledger row. Deleting a token that does
		not exist is not an error; logout must be idempotent.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, token string) error

	/*
		DeleteAllForUser removes every ledger row belonging to the user,
		ending every session on every device.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	DeleteAllForUser(context context.Context, userID string) error

	/*
		Rotate atomically replaces an old ledger row with a new one.
		Both the delete and the insert happen in a single transaction so
		a crash can never leave the old token replayable alongside the new.
		When the old token is already gone (a concurrent rotation won),
		implementations fail with apperr.NotFound instead of inserting.

		Parameters:
		  - context: context.Context
		  - oldToken: string
		  - newToken: *RefreshToken

		Returns:
		  - error: apperr.NotFound on a lost rotation race, or persistence failures
	*/
	Rotate(context context.Context, oldToken string, newToken *RefreshToken) error
}
