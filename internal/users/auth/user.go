// Copyright (c) 2026 Byte. All rights reserved.

/*
Package auth implements the user identity and session-renewal layer.

It defines the core domain entities (User, RefreshToken) and logic for
registration, credential and Google Sign-In authentication, and the
rotating refresh-token protocol that keeps short-lived access tokens
renewable without re-login.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no
external dependencies and encapsulate all business rules related to user
identity.
*/
package auth

import (
	"time"
)

// # Domain Entities

// User represents a registered member of the Byte platform.
//
// An account always has an email. It has a password hash, a Google
// identity, or both; never neither.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Avatar       string    `json:"avatar,omitempty"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	GoogleID     string    `json:"-"` // Provider subject; internal linkage only.
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasPassword reports whether the account can authenticate with credentials.
// Accounts created through Google Sign-In have no password hash.
func (user *User) HasPassword() bool {
	return user.PasswordHash != ""
}

// RefreshToken is one row of the session ledger.
//
// The opaque token value is the primary key. Possession of the value IS
// the session; a row that is deleted or expired grants nothing.
type RefreshToken struct {
	Token     string    `json:"-"` // Opaque secret. Never serialized.
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the ledger row is past its validity window.
func (token *RefreshToken) Expired(now time.Time) bool {
	return !token.ExpiresAt.After(now)
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldName        = "name"
	FieldIDToken     = "idToken"
	FieldAccessToken = "accessToken"
	FieldUser        = "user"
	FieldMessage     = "message"
)
