// Copyright (c) 2026 Byte. All rights reserved.

// PostgreSQL implementations of the auth storage contracts.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types to avoid leaking storage implementation details.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bytefood/byte/internal/platform/apperr"
	"github.com/bytefood/byte/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account metadata, initializing timestamps when
not provided. A duplicate email surfaces as [apperr.UserExists] even when
two registrations race past the read-before-write check, because the
unique index is the final arbiter.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.UserExists, or database connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, email, name, avatarurl, passwordhash, googleid, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.Name,
		user.Avatar,
		nullable(user.PasswordHash),
		nullable(user.GoogleID),
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.UserExists()
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByEmail retrieves a user record by their canonical email address.

Parameters:
  - context: context.Context
  - email: string (already trimmed and lowercased)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT id, email, name, avatarurl, passwordhash, googleid, createdat, updatedat
		FROM users.account
		WHERE email = $1`

	return repository.scanOne(context, query, email)
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts. This is on the hot
path of every authenticated request, so the unique index must stay.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `
		SELECT id, email, name, avatarurl, passwordhash, googleid, createdat, updatedat
		FROM users.account
		WHERE id = $1`

	return repository.scanOne(context, query, id)
}

/*
AttachGoogleIdentity links a Google subject to an existing account.

Description: Runs when a known email signs in through Google for the first
time. The avatar is only filled in when the account has none.

Parameters:
  - context: context.Context
  - userID: string
  - googleID: string
  - avatar: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresUserRepository) AttachGoogleIdentity(context context.Context, userID, googleID, avatar string) error {
	const query = `
		UPDATE users.account
		SET googleid = $2,
		    avatarurl = CASE WHEN avatarurl = '' THEN $3 ELSE avatarurl END,
		    updatedat = $4
		WHERE id = $1`

	_, err := repository.pool.Exec(context, query, userID, googleID, avatar, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_attach_google_failed: %w", err)
	}

	return nil
}

// scanOne hydrates a single account row, translating pgx.ErrNoRows.
func (repository *PostgresUserRepository) scanOne(context context.Context, query string, arg any) (*User, error) {
	user := &User{}
	var passwordHash, googleID *string

	err := repository.pool.QueryRow(context, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Avatar,
		&passwordHash,
		&googleID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_failed: %w", err)
	}

	if passwordHash != nil {
		user.PasswordHash = *passwordHash
	}
	if googleID != nil {
		user.GoogleID = *googleID
	}

	return user, nil
}

// nullable maps an empty string to SQL NULL.
func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// # Refresh Token Ledger

// PostgresRefreshTokenRepository implements the RefreshTokenRepository interface.
type PostgresRefreshTokenRepository struct {
	pool *pgxpool.Pool
}

// NewRefreshTokenRepository creates a new PostgreSQL implementation of RefreshTokenRepository.
func NewRefreshTokenRepository(pool *pgxpool.Pool) *PostgresRefreshTokenRepository {
	return &PostgresRefreshTokenRepository{pool: pool}
}

/*
Create inserts a new ledger row into the users.refresh_token table.

Parameters:
  - context: context.Context
  - token: *RefreshToken

Returns:
  - error: Storage failures
*/
func (repository *PostgresRefreshTokenRepository) Create(context context.Context, token *RefreshToken) error {
	const query = `
		INSERT INTO users.refresh_token (token, userid, expiresat, createdat)
		VALUES ($1, $2, $3, $4)`

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		token.Token,
		token.UserID,
		token.ExpiresAt,
		token.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_token_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindValid resolves an opaque token into its live ledger row.

Description: Expiry is enforced lazily. A row that turns out to be expired
is deleted here, on read, and reported as not found; there is no background
sweeper to race with.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - *RefreshToken: Hydrated ledger row
  - error: apperr.NotFound for missing or expired tokens, or execution errors
*/
func (repository *PostgresRefreshTokenRepository) FindValid(context context.Context, token string) (*RefreshToken, error) {
	const query = `
		SELECT token, userid, expiresat, createdat
		FROM users.refresh_token
		WHERE token = $1`

	row := &RefreshToken{}
	err := repository.pool.QueryRow(context, query, token).Scan(
		&row.Token,
		&row.UserID,
		&row.ExpiresAt,
		&row.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Refresh token")
		}
		return nil, fmt.Errorf("postgres_token_repo_find_failed: %w", err)
	}

	// Lazy expiry: purge the stale row and report it missing.
	if row.Expired(time.Now()) {
		_ = repository.Delete(context, token)
		return nil, apperr.NotFound("Refresh token")
	}

	return row, nil
}

/*
Delete removes a specific ledger row.

Description: Deleting an absent token is a no-op, which keeps logout
idempotent; a second logout with the same cookie succeeds identically.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: Execution errors
*/
func (repository *PostgresRefreshTokenRepository) Delete(context context.Context, token string) error {
	const query = "DELETE FROM users.refresh_token WHERE token = $1"

	_, err := repository.pool.Exec(context, query, token)
	if err != nil {
		return fmt.Errorf("postgres_token_repo_delete_failed: %w", err)
	}

	return nil
}

/*
DeleteAllForUser removes every ledger row belonging to the user.

Description: Session nuking across all devices, used by the
revoke-on-login policy so each fresh login leaves exactly one live
session.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Batch delete failures
*/
func (repository *PostgresRefreshTokenRepository) DeleteAllForUser(context context.Context, userID string) error {
	const query = "DELETE FROM users.refresh_token WHERE userid = $1"

	_, err := repository.pool.Exec(context, query, userID)
	if err != nil {
		return fmt.Errorf("postgres_token_repo_delete_all_failed: %w", err)
	}

	return nil
}

/*
Rotate atomically replaces one ledger row with another.

Description: The delete of the old token and the insert of the new one
share a transaction. Either both land or neither does, so a crash mid-
rotation can never leave the old token replayable next to the new one.
The transaction is keyed on the old token: if the delete finds nothing,
a concurrent rotation already consumed it and this one loses with
apperr.NotFound instead of minting a second live token.

Parameters:
  - context: context.Context
  - oldToken: string
  - newToken: *RefreshToken

Returns:
  - error: apperr.NotFound when the old token is gone, or transaction failures
*/
func (repository *PostgresRefreshTokenRepository) Rotate(context context.Context, oldToken string, newToken *RefreshToken) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_token_repo_rotate_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	tag, err := transaction.Exec(context,
		"DELETE FROM users.refresh_token WHERE token = $1", oldToken,
	)
	if err != nil {
		return fmt.Errorf("postgres_token_repo_rotate_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Refresh token")
	}

	if newToken.CreatedAt.IsZero() {
		newToken.CreatedAt = time.Now()
	}

	if _, err := transaction.Exec(context,
		`INSERT INTO users.refresh_token (token, userid, expiresat, createdat)
		 VALUES ($1, $2, $3, $4)`,
		newToken.Token, newToken.UserID, newToken.ExpiresAt, newToken.CreatedAt,
	); err != nil {
		return fmt.Errorf("postgres_token_repo_rotate_insert_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_token_repo_rotate_commit_failed: %w", err)
	}

	return nil
}
