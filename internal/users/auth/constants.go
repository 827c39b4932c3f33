// Copyright (c) 2026 Byte. All rights reserved.

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the duration a JWT access token remains valid.
	// We keep it very short (3m) so a leaked token is useful for minutes,
	// not days; the refresh protocol makes renewal invisible to users.
	AccessTokenTTL = 3 * time.Minute

	// RefreshTokenTTL is the duration a refresh token remains valid.
	// One week bounds how long an idle session survives.
	RefreshTokenTTL = 7 * 24 * time.Hour

	// RefreshTokenByteLength is the byte length of the random refresh
	// token. 40 bytes gives 320 bits of entropy, far beyond brute force.
	RefreshTokenByteLength = 40
)
