// Copyright (c) 2026 Byte. All rights reserved.

package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytefood/byte/internal/platform/respond"
	"github.com/bytefood/byte/internal/users/auth"
)

// # Harness

// newAuthRouter mounts the handler over the in-memory service fixture so
// tests can exercise the transport layer end to end.
func newAuthRouter(t *testing.T) (http.Handler, *authFixture) {
	t.Helper()

	fixture := newAuthFixture(t, defaultPolicy())
	handler := auth.NewHandler(fixture.service, false)
	return handler.Routes(), fixture
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func decodeErrorEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) respond.ErrorEnvelope {
	t.Helper()

	var envelope respond.ErrorEnvelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope
}

// # Login

/*
TestLoginHandler_MalformedEmail verifies that a syntactically invalid
email is rejected as bad input before credentials are ever checked. The
distinction matters to clients: 400 means fix the request, 401 means the
credentials were wrong.
*/
func TestLoginHandler_MalformedEmail(t *testing.T) {
	router, _ := newAuthRouter(t)

	recorder := postJSON(t, router, "/login",
		`{"email":"not-an-email","password":"Password1"}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	envelope := decodeErrorEnvelope(t, recorder)
	assert.Equal(t, "VALIDATION_ERROR", envelope.Code)
}

/*
TestLoginHandler_ValidEmailUnknownAccount verifies that a well-formed
email for a missing account still fails as a credential problem, not a
validation one.
*/
func TestLoginHandler_ValidEmailUnknownAccount(t *testing.T) {
	router, _ := newAuthRouter(t)

	recorder := postJSON(t, router, "/login",
		`{"email":"ghost@example.com","password":"Password1"}`)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	envelope := decodeErrorEnvelope(t, recorder)
	assert.Equal(t, "INVALID_CREDENTIALS", envelope.Code)
}

/*
TestLoginHandler_NormalizedEmailRoundTrip verifies that a login email
differing in case and whitespace still passes the transport checks and
reaches the account.
*/
func TestLoginHandler_NormalizedEmailRoundTrip(t *testing.T) {
	router, fixture := newAuthRouter(t)

	_, err := fixture.service.Register(context.Background(), auth.RegisterInput{
		Email:    "ann@example.com",
		Password: "Password1",
	})
	require.NoError(t, err)

	recorder := postJSON(t, router, "/login",
		`{"email":"  Ann@Example.com ","password":"Password1"}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
}
