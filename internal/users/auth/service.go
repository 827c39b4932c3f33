// Copyright (c) 2026 Byte. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytefood/byte/internal/platform/apperr"
	"github.com/bytefood/byte/internal/platform/sec"
	"github.com/bytefood/byte/internal/platform/validate"
	"github.com/bytefood/byte/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for issuing and checking access tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	GenerateAccessToken(userID string, timeToLive time.Duration) (string, error)

	// VerifyAccessToken validates a JWT and returns the user ID it carries.
	// Expired, tampered, and malformed tokens fail identically.
	VerifyAccessToken(tokenString string) (string, error)
}

// Policy holds the tunable behaviors of the authentication flow.
type Policy struct {
	// RevokeOnLogin deletes every prior refresh token of an account on a
	// fresh password or Google login, so each login resets the account to
	// exactly one live session.
	RevokeOnLogin bool

	// RevealSocialHint swaps in a "use Google Sign-In" message when a
	// password login hits a social-only account. The error code stays
	// INVALID_CREDENTIALS either way so responses do not leak whether an
	// email is registered.
	RevealSocialHint bool
}

// Service implements the authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, token
// rotation, or login logic must be reviewed by the security team.
type Service struct {
	userRepository  UserRepository
	tokenRepository RefreshTokenRepository
	tokenProvider   TokenProvider
	googleVerifier  IdentityVerifier
	policy          Policy
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	tokenRepo RefreshTokenRepository,
	tokenProv TokenProvider,
	verifier IdentityVerifier,
	policy Policy,
) *Service {
	return &Service{
		userRepository:  userRepo,
		tokenRepository: tokenRepo,
		tokenProvider:   tokenProv,
		googleVerifier:  verifier,
		policy:          policy,
	}
}

// Session represents a freshly established authentication session.
type Session struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

/*
Register validates, hashes, and persists a brand new user account, then
logs the account in.

Description: The email is canonicalized (trimmed, lowercased) before any
lookup or storage so "A@B.com " and "a@b.com" are the same account. A
missing name defaults to the email's local part.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *Session: Tokens and profile for the new account
  - error: apperr.UserExists if the email is taken, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Session, error) {

	email := validate.NormalizeEmail(input.Email)

	// Fast-path uniqueness check. The unique index in the store is the
	// real guard; this just gives the common case a clean error without
	// burning a bcrypt hash.
	if _, err := service.userRepository.FindByEmail(context, email); err == nil {
		return nil, apperr.UserExists()
	}

	// Prevent storing plain-text passwords. Default cost balances security
	// against CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = emailLocalPart(email)
	}

	// Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: hashedPassword,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		if apperr.HasCode(err, apperr.CodeUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	// A brand-new account has no prior sessions to revoke.
	return service.issueSession(context, user, false)
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login validates user credentials and issues a fresh session.

Description: Performs constant-time password comparison via bcrypt. Every
failure mode (unknown email, social-only account, wrong password) yields
the same INVALID_CREDENTIALS code to prevent account enumeration.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *Session: Transport-ready session identifiers
  - error: apperr.InvalidCredentials or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {

	email := validate.NormalizeEmail(input.Email)

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		// Unknown account. Generic message to prevent enumeration.
		return nil, apperr.InvalidCredentials("")
	}

	// Accounts created through Google Sign-In have no password to check.
	if !user.HasPassword() {
		if service.policy.RevealSocialHint {
			return nil, apperr.InvalidCredentials("This account uses Google Sign-In")
		}
		return nil, apperr.InvalidCredentials("")
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.InvalidCredentials("")
	}

	return service.issueSession(context, user, service.policy.RevokeOnLogin)
}

/*
AuthWithGoogle signs a user in (or up) with a verified Google ID token.

Description: The token is checked with the identity provider, and the
claims it asserts are validated with the same email and name rules as
registration. A known email gets the Google identity linked to its
existing account; an unknown email gets a fresh password-less account.
Provider verification failures collapse to INVALID_CREDENTIALS; malformed
claims surface as VALIDATION_ERROR.

Parameters:
  - context: context.Context
  - idToken: string

Returns:
  - *Session: Tokens and profile
  - error: apperr.InvalidCredentials or storage failures
*/
func (service *Service) AuthWithGoogle(context context.Context, idToken string) (*Session, error) {

	identity, err := service.googleVerifier.Verify(context, idToken)
	if err != nil {
		return nil, apperr.InvalidCredentials("Invalid Google Token")
	}

	email := validate.NormalizeEmail(identity.Email)
	claimedName := strings.TrimSpace(identity.Name)

	// Provider claims get the same scrutiny as registration input. A
	// verified token asserting a malformed email or name is a validation
	// failure, not a bad token.
	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).
		Email(FieldEmail, email).
		Name(FieldName, claimedName)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByEmail(context, email)
	switch {
	case err == nil && user.GoogleID == "":
		// First Google login on a credentials account: link the identity.
		if err := service.userRepository.AttachGoogleIdentity(context, user.ID, identity.Subject, identity.Picture); err != nil {
			return nil, fmt.Errorf("auth_service_google_link_failed: %w", err)
		}
		user.GoogleID = identity.Subject
		if user.Avatar == "" {
			user.Avatar = identity.Picture
		}

	case err != nil:
		// Unknown email: enroll a password-less account.
		name := claimedName
		if name == "" {
			name = emailLocalPart(email)
		}

		user = &User{
			ID:       uuid.New(),
			Email:    email,
			Name:     name,
			Avatar:   identity.Picture,
			GoogleID: identity.Subject,
		}

		if err := service.userRepository.Create(context, user); err != nil {
			// A racing signup with this email is fine; use the winner.
			if apperr.HasCode(err, apperr.CodeUserExists) {
				if user, err = service.userRepository.FindByEmail(context, email); err != nil {
					return nil, fmt.Errorf("auth_service_google_race_failed: %w", err)
				}
			} else {
				return nil, fmt.Errorf("auth_service_google_create_failed: %w", err)
			}
		}
	}

	return service.issueSession(context, user, service.policy.RevokeOnLogin)
}

/*
Logout deletes the refresh token from the ledger.

Description: Idempotent. Logging out an unknown, expired, or already
logged-out token succeeds identically; the outcome (token unusable) holds
either way.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - error: Storage failures only
*/
func (service *Service) Logout(context context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	if err := service.tokenRepository.Delete(context, refreshToken); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	return nil
}

// # Session Renewal

/*
Refresh implements the refresh-token rotation protocol.

Description: Verifies the presented token against the ledger, then
atomically replaces it with a successor. The presented token is dead after
this call whether or not the response ever reaches the client; replaying
it fails.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *Session: New access and refresh tokens
  - error: apperr.Unauthenticated or storage failures
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*Session, error) {

	if refreshToken == "" {
		return nil, apperr.Unauthenticated("Missing refresh token")
	}

	// Ledger lookup enforces lazy expiry; missing and expired are identical.
	row, err := service.tokenRepository.FindValid(context, refreshToken)
	if err != nil {
		return nil, apperr.Unauthenticated("Invalid or expired refresh token")
	}

	// The account must still exist; tokens of deleted users die here.
	user, err := service.userRepository.FindByID(context, row.UserID)
	if err != nil {
		return nil, apperr.Unauthenticated("Invalid or expired refresh token")
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_access_token_failed: %w", err)
	}

	newValue, err := sec.GenerateSecureToken(RefreshTokenByteLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_secure_token_failed: %w", err)
	}

	expiresAt := time.Now().Add(RefreshTokenTTL)
	successor := &RefreshToken{
		Token:     newValue,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}

	// Rotation: old out, new in, one transaction. A lost race against a
	// concurrent rotation of the same token fails like a replay would.
	if err := service.tokenRepository.Rotate(context, refreshToken, successor); err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Unauthenticated("Invalid or expired refresh token")
		}
		return nil, fmt.Errorf("auth_service_refresh_rotate_failed: %w", err)
	}

	return &Session{
		AccessToken:           accessToken,
		RefreshToken:          newValue,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}

// # Identity Resolution

/*
ResolveIdentity turns a bearer access token into the account it names.

Description: Backs the authentication middleware. The signature check
alone is not enough; the account is re-read so tokens signed for a
since-deleted user resolve to nothing.

Parameters:
  - context: context.Context
  - accessToken: string

Returns:
  - *sec.Identity: Resolved identity
  - error: Any verification or lookup failure
*/
func (service *Service) ResolveIdentity(context context.Context, accessToken string) (*sec.Identity, error) {

	userID, err := service.tokenProvider.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	return &sec.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Avatar: user.Avatar,
	}, nil
}

/*
CurrentUser returns the full profile for an authenticated user ID.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: Hydrated profile
  - error: apperr.NotFound or storage failures
*/
func (service *Service) CurrentUser(context context.Context, userID string) (*User, error) {
	return service.userRepository.FindByID(context, userID)
}

// # Internal Helpers

// issueSession mints the access/refresh token pair for a user and records
// the refresh token in the ledger.
func (service *Service) issueSession(context context.Context, user *User, revokeExisting bool) (*Session, error) {

	if revokeExisting {
		if err := service.tokenRepository.DeleteAllForUser(context, user.ID); err != nil {
			return nil, fmt.Errorf("auth_service_revoke_failed: %w", err)
		}
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	refreshValue, err := sec.GenerateSecureToken(RefreshTokenByteLength)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	expiresAt := time.Now().Add(RefreshTokenTTL)
	ledgerRow := &RefreshToken{
		Token:     refreshValue,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}

	if err := service.tokenRepository.Create(context, ledgerRow); err != nil {
		return nil, fmt.Errorf("auth_service_session_creation_failed: %w", err)
	}

	return &Session{
		AccessToken:           accessToken,
		RefreshToken:          refreshValue,
		RefreshTokenExpiresAt: expiresAt,
		User:                  user,
	}, nil
}

// emailLocalPart returns everything before the '@' of a canonical email.
func emailLocalPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
