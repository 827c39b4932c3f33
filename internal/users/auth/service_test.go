// Copyright (c) 2026 Byte. All rights reserved.

package auth_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytefood/byte/internal/platform/apperr"
	"github.com/bytefood/byte/internal/platform/sec"
	"github.com/bytefood/byte/internal/users/auth"
)

// # In-Memory Fakes

type memoryUserRepository struct {
	byID    map[string]*auth.User
	byEmail map[string]*auth.User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{
		byID:    make(map[string]*auth.User),
		byEmail: make(map[string]*auth.User),
	}
}

func (repository *memoryUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	user, found := repository.byID[id]
	if !found {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

func (repository *memoryUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	user, found := repository.byEmail[email]
	if !found {
		return nil, apperr.NotFound("User")
	}
	copied := *user
	return &copied, nil
}

func (repository *memoryUserRepository) Create(_ context.Context, user *auth.User) error {
	if _, exists := repository.byEmail[user.Email]; exists {
		return apperr.UserExists()
	}
	copied := *user
	repository.byID[user.ID] = &copied
	repository.byEmail[user.Email] = &copied
	return nil
}

func (repository *memoryUserRepository) AttachGoogleIdentity(_ context.Context, userID, googleID, avatar string) error {
	user, found := repository.byID[userID]
	if !found {
		return apperr.NotFound("User")
	}
	user.GoogleID = googleID
	if user.Avatar == "" {
		user.Avatar = avatar
	}
	return nil
}

func (repository *memoryUserRepository) delete(id string) {
	if user, found := repository.byID[id]; found {
		delete(repository.byEmail, user.Email)
		delete(repository.byID, id)
	}
}

type memoryTokenRepository struct {
	rows map[string]*auth.RefreshToken
}

func newMemoryTokenRepository() *memoryTokenRepository {
	return &memoryTokenRepository{rows: make(map[string]*auth.RefreshToken)}
}

func (repository *memoryTokenRepository) Create(_ context.Context, token *auth.RefreshToken) error {
	copied := *token
	repository.rows[token.Token] = &copied
	return nil
}

func (repository *memoryTokenRepository) FindValid(_ context.Context, token string) (*auth.RefreshToken, error) {
	row, found := repository.rows[token]
	if !found {
		return nil, apperr.NotFound("Refresh token")
	}
	if row.Expired(time.Now()) {
		delete(repository.rows, token)
		return nil, apperr.NotFound("Refresh token")
	}
	copied := *row
	return &copied, nil
}

func (repository *memoryTokenRepository) Delete(_ context.Context, token string) error {
	delete(repository.rows, token)
	return nil
}

func (repository *memoryTokenRepository) DeleteAllForUser(_ context.Context, userID string) error {
	for value, row := range repository.rows {
		if row.UserID == userID {
			delete(repository.rows, value)
		}
	}
	return nil
}

func (repository *memoryTokenRepository) Rotate(_ context.Context, oldToken string, newToken *auth.RefreshToken) error {
	if _, found := repository.rows[oldToken]; !found {
		return apperr.NotFound("Refresh token")
	}
	delete(repository.rows, oldToken)
	copied := *newToken
	repository.rows[newToken.Token] = &copied
	return nil
}

type stubVerifier struct {
	identity *auth.GoogleIdentity
	err      error
}

func (verifier *stubVerifier) Verify(_ context.Context, _ string) (*auth.GoogleIdentity, error) {
	if verifier.err != nil {
		return nil, verifier.err
	}
	return verifier.identity, nil
}

// # Harness

type authFixture struct {
	service  *auth.Service
	users    *memoryUserRepository
	tokens   *memoryTokenRepository
	verifier *stubVerifier
	issuer   *sec.TokenService
}

func newAuthFixture(t *testing.T, policy auth.Policy) *authFixture {
	t.Helper()

	issuer, err := sec.NewTokenService("test-secret-test-secret", "byte.app")
	require.NoError(t, err)

	users := newMemoryUserRepository()
	tokens := newMemoryTokenRepository()
	verifier := &stubVerifier{}

	return &authFixture{
		service:  auth.NewService(users, tokens, issuer, verifier, policy),
		users:    users,
		tokens:   tokens,
		verifier: verifier,
		issuer:   issuer,
	}
}

func defaultPolicy() auth.Policy {
	return auth.Policy{RevokeOnLogin: true}
}

// # Registration & Login

/*
TestRegister_LoginRoundTrip verifies that a registered account can log in,
including when the login email differs in case and surrounding whitespace.
*/
func TestRegister_LoginRoundTrip(t *testing.T) {
	fixture := newAuthFixture(t, defaultPolicy())
	ctx := context.Background()

	// 1. Register with a messy email
	session, err := fixture.service.Register(ctx, auth.RegisterInput{
		Email:    "  Ann.Chovey@Example.COM ",
		Password: "Password1",
	})
	require.NoError(t, err)
	require.NotNil(t, session.User)

	// 2. The stored email is canonical and the name defaults to the local part
	assert.Equal(t, "ann.chovey@example.com", session.User.Email)
	assert.Equal(t, "ann.chovey", session.User.Name)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)

	// 3. Logging in with a differently-cased spelling reaches the same account
	login, err := fixture.service.Login(ctx, auth.LoginInput{
		Email:    "ANN.CHOVEY@example.com",
		Password: "Password1",
	})
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, login.User.ID)
}

/*
TestRegister_DuplicateEmail verifies that registering an already-used email
fails with the USER_EXISTS code.
*/
func TestRegister_DuplicateEmail(t *testing.T) {
	fixture := newAuthFixture(t, defaultPolicy())
	ctx := context.Background()

	_, err := fixture.service.Register(ctx, auth.RegisterInput{
		Email:    "dup@example.com",
		Password: "Password1",
	})
	require.NoError(t, err)

	// Same address, different case: still a duplicate
	_, err = fixture.service.Register(ctx, auth.RegisterInput{
		Email:    "DUP@example.com",
		Password: "Password1",
	})
	assert.True(t, apperr.HasCode(err, apperr.CodeUserExists))
}

/*
TestLogin_WrongPassword verifies that a bad password yields the generic
INVALID_CREDENTIALS code.
*/
func TestLogin_WrongPassword(t *testing.T) {
	fixture := newAuthFixture(t, defaultPolicy())
	ctx := context.Background()

	_, err := fixture.service.Register(ctx, auth.RegisterInput{
		Email:    "ann@example.com",
		Password: "Password1",
	})
	require.NoError(t, err)

	_, err = fixture.service.Login(ctx, auth.LoginInput{
		Email:    "ann@example.com",
		Password: "Password2",
	})
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials))
}

/*
TestLogin_SocialOnlyAccount verifies that a password login against an
account without a password hash fails with the same code as a wrong
password, so responses do not reveal how the account was created.
*/
func TestLogin_SocialOnlyAccount(t *testing.T) {
	fixture := newAuthFixture(t, defaultPolicy())
	ctx := context.Background()

	// Enroll through Google: the account has no password hash
	fixture.verifier.identity = &auth.GoogleIdentity{
		Subject: "google-sub-1",
		Email:   "social@example.com",
		Name:    "Social Only",
	}
	_, err := fixture.service.AuthWithGoogle(ctx, "stub-token")
	require.NoError(t, err)

	_, err = fixture.service.Login(ctx, auth.LoginInput{
		Email:    "social@example.com",
		Password: "Password1",
	})
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials))
}

/*
TestLogin_RevokesOlderSessions verifies that with the revoke-on-login
policy enabled, a fresh login kills every previously issued refresh token.
*/
func TestLogin_RevokesOlderSessions(t *testing.T) {
	fixture := newAuthFixture(t, defaultPolicy())
	ctx := context.Background()

	first, err := fixture.service.Register(ctx, auth.RegisterInput{
		Email:    "ann@example.com",
		Password: "Password1",
	})
	require.NoError(t, err)

	// A second login supersedes the first session entirely
	_, err = fixture.service.Login(ctx, auth.LoginInput{
		Email:    "ann@example.com",
		Password: "Password1",
	})
	require.NoError(t, err)

	_, err = fixture.service.Refresh(ctx, first.RefreshToken)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthenticated))
}

// # Session Renewal

/*
TestRefresh_RotationInvalidatesPredecessor verifies that a rotated refresh
token can never be used again while its successor works.
*/
func TestRefresh_RotationInvalidatesPredecessor(t *testing.T) {
	fixture := newAuthFixture(t, defaultPolicy())
	ctx := context.Background()

	session, err := fixture.service.Register(ctx, auth.RegisterInput{
		Email:    "ann@example.com",
		Password: "Password1",
	})
	require.NoError(t, err)

	// 1. First rotation succeeds
	renewed, err := fixture.service.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, renewed.RefreshToken)
	assert.NotEmpty(t, renewed.AccessToken)

	// 2. Replaying the consumed token fails
	_, err = fixture.service.Refresh(ctx, session.RefreshToken)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthenticated))

	// 3. The successor still works
	_, err = fixture.service.Refresh(ctx, renewed.RefreshToken)
	assert.NoError(t, err)
}

// racingTokenRepository simulates a concurrent rotation of the same token:
// the competing refresh completes between this caller's ledger read and its
// rotate, consuming the token.
type racingTokenRepository struct {
	*memoryTokenRepository
}

func (repository *racingTokenRepository) FindValid(ctx context.Context, token string) (*auth.RefreshToken, error) {
	row, err := repository.memoryTokenRepository.FindValid(ctx, token)
	if err != nil {
		return nil, err
	}
	// The rival wins the race right after our read.
	err = repository.memoryTokenRepository.Rotate(ctx, token, &auth.RefreshToken{
		Token:     "rival-" + token,
		UserID:    row.UserID,
		ExpiresAt: row.ExpiresAt,
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

/*
TestRefresh_LostRotationRace verifies that when two refreshes race on the
same token, the loser fails like a replay and does not mint a second live
session.
*/
func TestRefresh_LostRotationRace(t *testing.T) {
	ctx := context.Background()

	issuer, err := sec.NewTokenService("test-secret-test-secret", "byte.app")
	require.NoError(t, err)

	users := newMemoryUserRepository()
	tokens := &racingTokenRepository{memoryTokenRepository: newMemoryTokenRepository()}
	service := auth.NewService(users, tokens, issuer, &stubVerifier{}, defaultPolicy())

	session, err := service.Register(ctx, auth.RegisterInput{
		Email:    "ann@example.com",
		Password: "Password1",
	})
	require.NoError(t, err)

	// The wrapper hands the win to the rival mid-flight; this caller loses.
	_, err = service.Refresh(ctx, session.RefreshToken)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthenticated))

	// Exactly one live token remains: the rival's successor.
	assert.Len(t, tokens.rows, 1)
	_, exists := tokens.rows["rival-"+session.RefreshToken]
	assert.True(t, exists)
}

/*
TestRefresh_LazyExpiry verifies that an expired ledger row is rejected and
physically removed the moment it is read.
*/
func TestRefresh_LazyExpiry(t *testing.T) {
	fixture := newAuthFixture(t, defaultPolicy())
	ctx := context.Background()

	session, err := fixture.service.Register(ctx, auth.RegisterInput{
		Email:    "ann@example.com",
		Password: "Password1",
	})
	require.NoError(t, err)

	// Backdate an extra ledger row past its validity window
	expired := &auth.RefreshToken{
		Token:     "expired-token-value",
		UserID:    session.User.ID,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, fixture.tokens.Create(ctx, expired))

	_, err = fixture.service.Refresh(ctx, "expired-token-value")
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthenticated))

	// The stale row is gone, not merely rejected
	_, exists := fixture.tokens.rows["expired-token-value"]
	assert.False(t, exists)
}

/*
TestRefresh_DeletedUser verifies that a valid ledger row whose account has
vanished no longer grants a session.
*/
func TestRefresh_DeletedUser(t *testing.T) {
	fixture := newAuthFixture(t, defaultPolicy())
	ctx := context.Background()

	session, err := fixture.service.Register(ctx, auth.RegisterInput{
		Email:    "ann@example.com",
		Password: "Password1",
	})
	require.NoError(t, err)

	fixture.users.delete(session.User.ID)

	_, err = fixture.service.Refresh(ctx, session.RefreshToken)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthenticated))
}

/*
TestLogout_Idempotent verifies that logout succeeds for live, already
logged-out, and never-issued tokens alike, and that a logged-out token
cannot refresh.
*/
func TestLogout_Idempotent(t *testing.T) {
	fixture := newAuthFixture(t, defaultPolicy())
	ctx := context.Background()

	session, err := fixture.service.Register(ctx, auth.RegisterInput{
		Email:    "ann@example.com",
		Password: "Password1",
	})
	require.NoError(t, err)

	// 1. First logout removes the ledger row
	assert.NoError(t, fixture.service.Logout(ctx, session.RefreshToken))

	// 2. Second logout with the same token is equally successful
	assert.NoError(t, fixture.service.Logout(ctx, session.RefreshToken))

	// 3. A token that never existed is fine too
	assert.NoError(t, fixture.service.Logout(ctx, "nonsense-token"))

	// 4. The logged-out token cannot renew a session
	_, err = fixture.service.Refresh(ctx, session.RefreshToken)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthenticated))
}

// # Google Sign-In

/*
TestAuthWithGoogle_NewAccount verifies that an unknown Google identity gets
a fresh password-less account.
*/
func TestAuthWithGoogle_NewAccount(t *testing.T) {
	fixture := newAuthFixture(t, defaultPolicy())
	ctx := context.Background()

	fixture.verifier.identity = &auth.GoogleIdentity{
		Subject: "google-sub-7",
		Email:   "New.Person@Example.com",
		Name:    "New Person",
		Picture: "https://lh3.example.com/p.jpg",
	}

	session, err := fixture.service.AuthWithGoogle(ctx, "stub-token")
	require.NoError(t, err)

	assert.Equal(t, "new.person@example.com", session.User.Email)
	assert.Equal(t, "New Person", session.User.Name)
	assert.Equal(t, "https://lh3.example.com/p.jpg", session.User.Avatar)
	assert.False(t, session.User.HasPassword())
}

/*
TestAuthWithGoogle_LinksExistingAccount verifies that a known email gets
the Google identity attached instead of a duplicate account.
*/
func TestAuthWithGoogle_LinksExistingAccount(t *testing.T) {
	fixture := newAuthFixture(t, defaultPolicy())
	ctx := context.Background()

	registered, err := fixture.service.Register(ctx, auth.RegisterInput{
		Email:    "ann@example.com",
		Password: "Password1",
	})
	require.NoError(t, err)

	fixture.verifier.identity = &auth.GoogleIdentity{
		Subject: "google-sub-9",
		Email:   "ann@example.com",
		Name:    "Ann Chovey",
	}

	session, err := fixture.service.AuthWithGoogle(ctx, "stub-token")
	require.NoError(t, err)

	// Same account, now Google-linked; the password still works afterwards
	assert.Equal(t, registered.User.ID, session.User.ID)
	assert.Equal(t, "google-sub-9", fixture.users.byID[registered.User.ID].GoogleID)

	_, err = fixture.service.Login(ctx, auth.LoginInput{
		Email:    "ann@example.com",
		Password: "Password1",
	})
	assert.NoError(t, err)
}

/*
TestAuthWithGoogle_RejectedToken verifies that any verifier failure
surfaces as INVALID_CREDENTIALS with the fixed message.
*/
func TestAuthWithGoogle_RejectedToken(t *testing.T) {
	fixture := newAuthFixture(t, defaultPolicy())
	ctx := context.Background()

	fixture.verifier.err = errors.New("provider unreachable")

	_, err := fixture.service.AuthWithGoogle(ctx, "stub-token")
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials))
	assert.Equal(t, "Invalid Google Token", err.Error())
}

/*
TestAuthWithGoogle_MalformedClaims verifies that provider claims are held
to the same rules as registration input: a verified token asserting an
oversized email or a name with forbidden characters fails validation
instead of creating an account.
*/
func TestAuthWithGoogle_MalformedClaims(t *testing.T) {
	oversizedEmail := strings.Repeat("a", 300) + "@example.com"

	cases := []struct {
		name     string
		identity auth.GoogleIdentity
	}{
		{
			name: "oversized email",
			identity: auth.GoogleIdentity{
				Subject: "google-sub-11",
				Email:   oversizedEmail,
				Name:    "Plausible Person",
			},
		},
		{
			name: "name with forbidden characters",
			identity: auth.GoogleIdentity{
				Subject: "google-sub-12",
				Email:   "bot@example.com",
				Name:    "R0bot 3000 <script>",
			},
		},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			fixture := newAuthFixture(t, defaultPolicy())
			ctx := context.Background()

			fixture.verifier.identity = &testCase.identity

			_, err := fixture.service.AuthWithGoogle(ctx, "stub-token")
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
			assert.NotEqual(t, "Invalid Google Token", err.Error())

			// No account was persisted for the rejected claims
			assert.Empty(t, fixture.users.byEmail)
		})
	}
}

// # Identity Resolution

/*
TestResolveIdentity verifies that a bearer token resolves to the live
account, and that verification failures are indistinguishable whether the
token is tampered with or expired.
*/
func TestResolveIdentity(t *testing.T) {
	fixture := newAuthFixture(t, defaultPolicy())
	ctx := context.Background()

	session, err := fixture.service.Register(ctx, auth.RegisterInput{
		Email:    "ann@example.com",
		Password: "Password1",
	})
	require.NoError(t, err)

	// 1. A valid token resolves to the account
	identity, err := fixture.service.ResolveIdentity(ctx, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, identity.UserID)
	assert.Equal(t, "ann@example.com", identity.Email)

	// 2. A tampered token fails with the single verification error
	_, err = fixture.service.ResolveIdentity(ctx, session.AccessToken+"x")
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	// 3. An expired token fails with the very same error
	expiredToken, err := fixture.issuer.GenerateAccessToken(session.User.ID, -time.Minute)
	require.NoError(t, err)
	_, err = fixture.service.ResolveIdentity(ctx, expiredToken)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	// 4. A valid token for a deleted account resolves to nothing
	fixture.users.delete(session.User.ID)
	_, err = fixture.service.ResolveIdentity(ctx, session.AccessToken)
	assert.Error(t, err)
}
