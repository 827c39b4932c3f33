// Copyright (c) 2026 Byte. All rights reserved.

package sec

// Identity is the resolved caller attached to the request context.
//
// # Why a resolved identity instead of raw claims?
//
// The access token only embeds the user ID. The auth middleware verifies the
// token AND resolves the owning account on every request, so downstream
// handlers never have to decide what to do with a token whose user has
// disappeared. Such requests are simply anonymous.
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}
