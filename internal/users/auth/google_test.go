// Copyright (c) 2026 Byte. All rights reserved.

package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytefood/byte/internal/users/auth"
)

const testClientID = "byte-client-id.apps.example"

// newTokenInfoStub serves a canned tokeninfo response for any id_token.
func newTokenInfoStub(t *testing.T, status int, payload map[string]string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.NotEmpty(t, request.URL.Query().Get("id_token"))
		writer.WriteHeader(status)
		_ = json.NewEncoder(writer).Encode(payload)
	}))
}

/*
TestGoogleVerifier_Valid verifies that a well-formed tokeninfo response
with the right audience yields the asserted identity.
*/
func TestGoogleVerifier_Valid(t *testing.T) {
	server := newTokenInfoStub(t, http.StatusOK, map[string]string{
		"aud":     testClientID,
		"sub":     "1095728900",
		"email":   "ann@example.com",
		"name":    "Ann Chovey",
		"picture": "https://lh3.example.com/p.jpg",
	})
	defer server.Close()

	verifier := auth.NewGoogleVerifier(testClientID, server.URL, server.Client())

	identity, err := verifier.Verify(context.Background(), "stub-id-token")
	require.NoError(t, err)

	assert.Equal(t, "1095728900", identity.Subject)
	assert.Equal(t, "ann@example.com", identity.Email)
	assert.Equal(t, "Ann Chovey", identity.Name)
	assert.Equal(t, "https://lh3.example.com/p.jpg", identity.Picture)
}

/*
TestGoogleVerifier_AudienceMismatch verifies that a token minted for a
different application is rejected even though the provider accepted it.
*/
func TestGoogleVerifier_AudienceMismatch(t *testing.T) {
	server := newTokenInfoStub(t, http.StatusOK, map[string]string{
		"aud":   "someone-elses-client-id",
		"sub":   "1095728900",
		"email": "ann@example.com",
	})
	defer server.Close()

	verifier := auth.NewGoogleVerifier(testClientID, server.URL, server.Client())

	_, err := verifier.Verify(context.Background(), "stub-id-token")
	assert.ErrorIs(t, err, auth.ErrTokenRejected)
}

/*
TestGoogleVerifier_ProviderRefusal verifies that a non-200 tokeninfo
answer is reported as a rejection.
*/
func TestGoogleVerifier_ProviderRefusal(t *testing.T) {
	server := newTokenInfoStub(t, http.StatusBadRequest, map[string]string{
		"error": "invalid_token",
	})
	defer server.Close()

	verifier := auth.NewGoogleVerifier(testClientID, server.URL, server.Client())

	_, err := verifier.Verify(context.Background(), "garbage")
	assert.ErrorIs(t, err, auth.ErrTokenRejected)
}

/*
TestGoogleVerifier_IncompleteClaims verifies that a response missing the
subject or email is unusable for enrollment and gets rejected.
*/
func TestGoogleVerifier_IncompleteClaims(t *testing.T) {
	server := newTokenInfoStub(t, http.StatusOK, map[string]string{
		"aud": testClientID,
		"sub": "1095728900",
		// no email claim
	})
	defer server.Close()

	verifier := auth.NewGoogleVerifier(testClientID, server.URL, server.Client())

	_, err := verifier.Verify(context.Background(), "stub-id-token")
	assert.ErrorIs(t, err, auth.ErrTokenRejected)
}
