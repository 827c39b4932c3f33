// Copyright (c) 2026 Byte. All rights reserved.

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// # Google Sign-In

// GoogleIdentity is the subset of a verified Google ID token the service
// cares about.
type GoogleIdentity struct {
	Subject string // Stable Google account ID ("sub" claim).
	Email   string
	Name    string
	Picture string
}

// IdentityVerifier validates an externally issued ID token and returns
// the identity it asserts.
type IdentityVerifier interface {

	/*
		Verify checks the ID token with the identity provider.

		Parameters:
		  - context: context.Context
		  - idToken: string (raw token received from the client)

		Returns:
		  - *GoogleIdentity: Asserted identity
		  - error: Verification or transport failures
	*/
	Verify(context context.Context, idToken string) (*GoogleIdentity, error)
}

// ErrTokenRejected reports that the provider examined the token and
// refused it, as opposed to a transport failure reaching the provider.
var ErrTokenRejected = errors.New("identity provider rejected token")

// GoogleVerifier verifies Google ID tokens against the tokeninfo endpoint.
//
// The base URL and HTTP client are injected so tests and local setups can
// point at a stub provider.
type GoogleVerifier struct {
	clientID   string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleVerifier constructs a verifier for the given OAuth client ID.
// A nil httpClient gets a sane default with a timeout.
func NewGoogleVerifier(clientID, baseURL string, httpClient *http.Client) *GoogleVerifier {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &GoogleVerifier{
		clientID:   clientID,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// tokenInfoResponse mirrors the fields of Google's tokeninfo payload we use.
type tokenInfoResponse struct {
	Audience string `json:"aud"`
	Subject  string `json:"sub"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Picture  string `json:"picture"`
}

/*
Verify submits the ID token to the tokeninfo endpoint and validates the
audience claim.

Description: Google signs the tokeninfo response implicitly by serving it
over TLS from its own infrastructure, so a 200 with a matching audience is
sufficient proof of identity here.

Parameters:
  - context: context.Context
  - idToken: string

Returns:
  - *GoogleIdentity: Verified identity claims
  - error: ErrTokenRejected for provider refusals, transport errors otherwise
*/
func (verifier *GoogleVerifier) Verify(context context.Context, idToken string) (*GoogleIdentity, error) {

	// 1. Build the tokeninfo request
	endpoint := verifier.baseURL + "?id_token=" + url.QueryEscape(idToken)
	request, err := http.NewRequestWithContext(context, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("google_verifier_request_failed: %w", err)
	}

	// 2. Ask the provider to validate the token
	response, err := verifier.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("google_verifier_transport_failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	// A non-200 means the provider refused the token itself
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrTokenRejected, response.StatusCode)
	}

	var info tokenInfoResponse
	if err := json.NewDecoder(response.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("google_verifier_decode_failed: %w", err)
	}

	// 3. The token must have been minted for OUR application
	if verifier.clientID == "" || info.Audience != verifier.clientID {
		return nil, fmt.Errorf("%w: audience mismatch", ErrTokenRejected)
	}

	if info.Subject == "" || info.Email == "" {
		return nil, fmt.Errorf("%w: incomplete identity claims", ErrTokenRejected)
	}

	return &GoogleIdentity{
		Subject: info.Subject,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}
