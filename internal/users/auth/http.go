// Copyright (c) 2026 Byte. All rights reserved.

/*
HTTP delivery layer for the authentication lifecycle.

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Handles JWT orchestration and refresh token cookie injection.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes,
headers, JSON, cookies).
*/
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bytefood/byte/internal/platform/constants"
	requestutil "github.com/bytefood/byte/internal/platform/request"
	"github.com/bytefood/byte/internal/platform/respond"
	"github.com/bytefood/byte/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the user lifecycle entry points (registration,
// credential and Google login, session renewal, logout, profile).
type Handler struct {
	authService   *Service
	secureCookies bool
}

// NewHandler constructs a new [Handler] with its service dependency.
// secureCookies should be true whenever the deployment serves HTTPS.
func NewHandler(service *Service, secureCookies bool) *Handler {
	return &Handler{authService: service, secureCookies: secureCookies}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account and logs it in.
//   - POST /login    : Authenticates with credentials.
//   - POST /google   : Authenticates with a Google ID token.
//   - POST /refresh  : Rotates the refresh token and mints a new access token.
//   - POST /logout   : Ends the session (idempotent).
//   - GET  /me       : Returns the resolved profile, or null when anonymous.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/google", handler.google)
	router.Post("/refresh", handler.refresh)
	router.Post("/logout", handler.logout)
	router.Get("/me", handler.me)

	return router
}

// # Request Payloads

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleRequest struct {
	IDToken string `json:"idToken"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Description: Validates input strictly (this is the only place the full
password policy applies), persists the account, and establishes a session.

Request:
  - Body: registerRequest (Email, Password, Name?)

Response:
  - 201: { user, accessToken } plus the refresh token cookie
  - 400: VALIDATION_ERROR: Bad input
  - 409: USER_EXISTS: Email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	// Normalize before validating so "  A@B.com " and "a@b.com" see the
	// same rules. The service normalizes again before storage.
	email := validate.NormalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldPassword, input.Password).
		Password(FieldPassword, input.Password).
		Name(FieldName, input.Name)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, session)
	respond.Created(writer, sessionPayload(session))
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials and injects a fresh refresh token
cookie. The email must be well formed so a malformed address fails as a
validation error rather than a credential mismatch; the password policy
stays a registration concern, and rejecting old passwords here would
lock out accounts that predate the policy.

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: { user, accessToken } plus the refresh token cookie
  - 400: VALIDATION_ERROR: Missing fields or malformed email
  - 401: INVALID_CREDENTIALS: Unknown email, wrong password, or social-only account
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	email := validate.NormalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, session)
	respond.OK(writer, sessionPayload(session))
}

/*
Google authenticates a user with a Google ID token.

POST /api/v1/auth/google

Description: The token is verified with the identity provider; a new
account is enrolled on first sign-in, an existing one gets linked.

Request:
  - Body: googleRequest (IDToken)

Response:
  - 200: { user, accessToken } plus the refresh token cookie
  - 401: INVALID_CREDENTIALS: Token rejected by the provider
*/
func (handler *Handler) google(writer http.ResponseWriter, request *http.Request) {
	var input googleRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.IDToken == "" {
		respond.Error(writer, request, validate.RequiredError(FieldIDToken, "is required"))
		return
	}

	session, err := handler.authService.AuthWithGoogle(request.Context(), input.IDToken)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, session)
	respond.OK(writer, sessionPayload(session))
}

/*
Refresh rotates the session and issues a new access token.

POST /api/v1/auth/refresh

Description: Reads the refresh token cookie, rotates it through the
ledger, and returns fresh credentials. The presented token is unusable
afterwards regardless of whether this response arrives.

Response:
  - 200: { user, accessToken } plus the rotated refresh token cookie
  - 401: UNAUTHENTICATED: Missing, expired, or already-rotated token
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.authService.Refresh(request.Context(), refreshCookieValue(request))
	if err != nil {
		handler.clearRefreshCookie(writer)
		respond.Error(writer, request, err)
		return
	}

	handler.setRefreshCookie(writer, session)
	respond.OK(writer, sessionPayload(session))
}

/*
Logout terminates the current session.

POST /api/v1/auth/logout

Description: Deletes the refresh token from the ledger (a no-op when it is
already gone) and clears the cookie. Always succeeds.

Response:
  - 204: No Content: Session terminated
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	_ = handler.authService.Logout(request.Context(), refreshCookieValue(request))

	handler.clearRefreshCookie(writer)
	respond.NoContent(writer)
}

/*
Me returns the profile resolved from the bearer token.

GET /api/v1/auth/me

Description: Anonymous requests get a 200 with a null body rather than an
error; the client uses this to decide whether anyone is signed in without
triggering its refresh machinery.

Response:
  - 200: User profile, or null when anonymous
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	identity := requestutil.Identity(request)
	if identity == nil {
		respond.OK(writer, nil)
		return
	}

	user, err := handler.authService.CurrentUser(request.Context(), identity.UserID)
	if err != nil {
		// The account vanished between resolution and now; treat as anonymous.
		respond.OK(writer, nil)
		return
	}

	respond.OK(writer, user)
}

// # Cookie Plumbing

// sessionPayload shapes the JSON body shared by every session-granting endpoint.
func sessionPayload(session *Session) map[string]any {
	return map[string]any{
		FieldUser:        session.User,
		FieldAccessToken: session.AccessToken,
	}
}

// refreshCookieValue extracts the refresh token cookie, empty when absent.
func refreshCookieValue(request *http.Request) string {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie == nil {
		return ""
	}
	return cookie.Value
}

// setRefreshCookie installs the rotated refresh token.
//
// SameSite=Lax (not Strict) because the SPA may be served from a sibling
// origin and still needs the cookie on top-level navigations.
func (handler *Handler) setRefreshCookie(writer http.ResponseWriter, session *Session) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    session.RefreshToken,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  session.RefreshTokenExpiresAt,
		MaxAge:   int(RefreshTokenTTL.Seconds()),
		Secure:   handler.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearRefreshCookie expires the refresh token cookie on the client.
func (handler *Handler) clearRefreshCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   handler.secureCookies,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
