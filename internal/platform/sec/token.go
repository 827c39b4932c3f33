// Copyright (c) 2026 Byte. All rights reserved.

package sec

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken produces a cryptographically random, hex-encoded
// opaque token of byteLength random bytes.
//
// # Entropy
//
// Refresh tokens use 40 bytes (320 bits), which makes guessing infeasible.
// The value embeds no user data: opaque tokens can be revoked individually
// server-side without maintaining a revocation list.
func GenerateSecureToken(byteLength int) (string, error) {
	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(buffer), nil
}
