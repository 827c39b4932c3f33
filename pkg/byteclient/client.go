// Copyright (c) 2026 Byte. All rights reserved.

package byteclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// Error codes mirrored from the API's error envelope.
const (
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUserExists         = "USER_EXISTS"
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
)

// APIError is a decoded error envelope from the server.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"error"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("api error %s (status %d)", e.Code, e.HTTPStatus)
}

// isAuthFailure classifies an error as recoverable-by-refresh: either the
// envelope carries the UNAUTHENTICATED code or the transport said 401.
func isAuthFailure(err error) bool {
	apiError, ok := err.(*APIError)
	if !ok {
		return false
	}
	return apiError.Code == CodeUnauthenticated || apiError.HTTPStatus == http.StatusUnauthorized
}

// Client talks to the Byte API.
//
// The embedded cookie jar carries the HttpOnly refresh cookie exactly the
// way a browser would, so the refresh endpoint works without the client
// ever seeing the refresh token itself.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	session     *Session
	coordinator *Coordinator
}

// New constructs a client for the given API base URL (no trailing slash).
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("byteclient: cookie jar: %w", err)
	}

	client := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
		session: NewSession(),
	}

	// The refresh call goes through doPlain, never through do, so a 401
	// on refresh itself cannot re-enter the coordinator.
	client.coordinator = NewCoordinator(client.session, client.refreshCall)

	return client, nil
}

// Session exposes the client's session store.
func (client *Client) Session() *Session {
	return client.session
}

// # Authentication Endpoints

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type authEnvelope struct {
	User        *User  `json:"user"`
	AccessToken string `json:"accessToken"`
}

// Register creates an account and signs the client in.
func (client *Client) Register(ctx context.Context, email, password, name string) (*User, error) {
	return client.authenticate(ctx, "/api/v1/auth/register", credentialsPayload{
		Email:    email,
		Password: password,
		Name:     name,
	})
}

// Login signs in with credentials.
func (client *Client) Login(ctx context.Context, email, password string) (*User, error) {
	return client.authenticate(ctx, "/api/v1/auth/login", credentialsPayload{
		Email:    email,
		Password: password,
	})
}

// LoginWithGoogle signs in with a Google ID token.
func (client *Client) LoginWithGoogle(ctx context.Context, idToken string) (*User, error) {
	return client.authenticate(ctx, "/api/v1/auth/google", map[string]string{
		"idToken": idToken,
	})
}

// authenticate posts credentials and installs the returned session.
// Session-granting calls bypass the interceptor: a 401 here is a real
// answer, not a stale token.
func (client *Client) authenticate(ctx context.Context, path string, payload any) (*User, error) {
	var envelope authEnvelope
	if err := client.doPlain(ctx, http.MethodPost, path, payload, &envelope); err != nil {
		return nil, err
	}

	client.session.SetAuth(envelope.User, envelope.AccessToken)
	return envelope.User, nil
}

// Logout ends the server session and clears local state. Local state is
// cleared even if the network call fails; signing out locally must never
// be blockable.
func (client *Client) Logout(ctx context.Context) error {
	err := client.doPlain(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil)
	client.session.Logout()
	return err
}

// Me returns the profile the server resolves for the current token,
// nil when anonymous.
func (client *Client) Me(ctx context.Context) (*User, error) {
	var user *User
	if err := client.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return user, nil
}

// refreshCall is the RefreshFunc wired into the coordinator.
func (client *Client) refreshCall(ctx context.Context) (*AuthResult, error) {
	var envelope authEnvelope
	if err := client.doPlain(ctx, http.MethodPost, "/api/v1/auth/refresh", nil, &envelope); err != nil {
		return nil, err
	}

	return &AuthResult{User: envelope.User, AccessToken: envelope.AccessToken}, nil
}

// # Domain Endpoints

// FoodSummary is one row of the catalog listing.
type FoodSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Food is a full catalog entry; the profile maps amino acid name to grams
// per 100 g.
type Food struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Category   string             `json:"category"`
	AminoAcids map[string]float64 `json:"amino_acids_g"`
}

// JournalEntry is one recorded consumption event.
type JournalEntry struct {
	ID          string    `json:"id"`
	FoodID      string    `json:"food_id"`
	FoodName    string    `json:"food_name"`
	WeightGrams float64   `json:"weight_g"`
	ConsumedAt  time.Time `json:"consumed_at"`
}

// DayReport is the day view of the journal.
type DayReport struct {
	Date    string             `json:"date"`
	Entries []JournalEntry     `json:"entries"`
	Totals  map[string]float64 `json:"totals_g"`
}

// ListFoods returns the id+name catalog listing.
func (client *Client) ListFoods(ctx context.Context) ([]FoodSummary, error) {
	var foods []FoodSummary
	if err := client.do(ctx, http.MethodGet, "/api/v1/foods", nil, &foods); err != nil {
		return nil, err
	}
	return foods, nil
}

// LookupFood resolves a (partial) name to its full profile.
func (client *Client) LookupFood(ctx context.Context, name string) (*Food, error) {
	var food Food
	if err := client.do(ctx, http.MethodGet, "/api/v1/foods/"+name, nil, &food); err != nil {
		return nil, err
	}
	return &food, nil
}

// AddJournalEntry records a consumption event. Requires authentication.
func (client *Client) AddJournalEntry(ctx context.Context, foodID string, weightGrams float64) (*JournalEntry, error) {
	payload := map[string]any{
		"food_id":  foodID,
		"weight_g": weightGrams,
	}

	var entry JournalEntry
	if err := client.do(ctx, http.MethodPost, "/api/v1/journal", payload, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// TodayJournal returns today's entries and totals. Requires authentication.
func (client *Client) TodayJournal(ctx context.Context) (*DayReport, error) {
	var report DayReport
	if err := client.do(ctx, http.MethodGet, "/api/v1/journal", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// # Transport

// do executes a request through the interceptor: bearer attach, auth
// failure detection, coordinated refresh, replay.
//
// The replay loop has no cap on purpose: a replay failing with 401 is a
// fresh failure that may trigger a new refresh cycle.
func (client *Client) do(ctx context.Context, method, path string, payload, out any) error {
	_, token := client.session.Snapshot()

	err := client.attempt(ctx, method, path, payload, out, token)
	for isAuthFailure(err) {
		newToken, refreshErr := client.coordinator.AwaitToken(ctx)
		if refreshErr != nil {
			return refreshErr
		}
		err = client.attempt(ctx, method, path, payload, out, newToken)
	}

	return err
}

// doPlain executes a request outside the interceptor: no bearer token,
// no refresh recovery. Used by auth endpoints and the refresh call.
func (client *Client) doPlain(ctx context.Context, method, path string, payload, out any) error {
	return client.attempt(ctx, method, path, payload, out, "")
}

// attempt performs one HTTP round trip and decodes the envelope.
func (client *Client) attempt(ctx context.Context, method, path string, payload, out any, token string) error {

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("byteclient: encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("byteclient: build request: %w", err)
	}

	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("byteclient: transport: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode == http.StatusNoContent {
		return nil
	}

	// Error envelope: {error, code}. A body that fails to decode still
	// yields a classifiable error through the HTTP status.
	if response.StatusCode >= 400 {
		apiError := &APIError{HTTPStatus: response.StatusCode}
		_ = json.NewDecoder(response.Body).Decode(apiError)
		return apiError
	}

	if out == nil {
		return nil
	}

	// Success envelope: {data: ...}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(response.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("byteclient: decode response: %w", err)
	}

	if string(envelope.Data) == "null" || len(envelope.Data) == 0 {
		return nil
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("byteclient: decode payload: %w", err)
	}

	return nil
}
