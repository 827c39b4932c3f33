// Copyright (c) 2026 Byte. All rights reserved.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/bytefood/byte/internal/platform/constants"
	"github.com/bytefood/byte/internal/platform/ctxutil"
	"github.com/bytefood/byte/internal/platform/sec"
)

// # Identity Resolution

// IdentityResolver turns a bearer access token into the account it belongs to.
//
// Resolution hits the user store so that tokens signed for a since-deleted
// account do not resolve. Any failure, cryptographic or otherwise, yields
// a nil identity rather than an error surfaced to the client.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, accessToken string) (*sec.Identity, error)
}

// Authenticate resolves the caller's identity from the Authorization header
// and stores it in the request context.
//
// This middleware never rejects a request. Missing, malformed, expired, or
// tampered tokens all degrade to an anonymous context; route-level guards
// decide whether anonymity is acceptable.
func Authenticate(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Extract the bearer token from the Authorization header
			token := bearerToken(request)
			if token == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// 2. Resolve the identity; failures fall through to anonymous
			identity, err := resolver.ResolveIdentity(request.Context(), token)
			if err != nil || identity == nil {
				next.ServeHTTP(writer, request)
				return
			}

			// 3. Enrich the context with the authenticated identity
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that did not resolve to an identity.
//
// Returns the UNAUTHENTICATED envelope so API clients know this failure is
// eligible for a token refresh and retry.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			if ctxutil.GetIdentity(request.Context()) == nil {
				writeError(writer, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(request *http.Request) string {
	header := request.Header.Get(constants.HeaderAuthorization)
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
