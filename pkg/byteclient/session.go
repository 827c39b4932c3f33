// Copyright (c) 2026 Byte. All rights reserved.

/*
Package byteclient is the Go client SDK for the Byte API.

It mirrors what the web SPA's networking layer does: a session store
holding the signed-in user and access token, a transport that attaches
the token to every request, and a refresh coordinator that renews an
expired token exactly once no matter how many requests fail at the same
moment.
*/
package byteclient

import "sync"

// User is the client-side view of an account, as served by the API.
type User struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Session holds the authenticated state of the client.
//
// Exactly two mutations exist: SetAuth replaces the user and token
// together, Logout clears them together. The mutex makes each transition
// atomic under Go's preemptive scheduling; a plain flag or unguarded pair
// of fields would tear.
type Session struct {
	mu          sync.Mutex
	user        *User
	accessToken string
}

// NewSession returns an empty, signed-out session.
func NewSession() *Session {
	return &Session{}
}

// SetAuth installs the signed-in user and access token as one step.
func (session *Session) SetAuth(user *User, accessToken string) {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.user = user
	session.accessToken = accessToken
}

// Logout clears the user and token as one step.
func (session *Session) Logout() {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.user = nil
	session.accessToken = ""
}

// Snapshot returns the current user and access token consistently.
// The user pointer must be treated as read-only by callers.
func (session *Session) Snapshot() (*User, string) {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.user, session.accessToken
}

// Authenticated reports whether a user is currently signed in.
func (session *Session) Authenticated() bool {
	user, token := session.Snapshot()
	return user != nil && token != ""
}
