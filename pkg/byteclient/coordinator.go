// Copyright (c) 2026 Byte. All rights reserved.

package byteclient

import (
	"context"
	"sync"
)

// AuthResult is what a successful refresh hands back.
type AuthResult struct {
	User        *User
	AccessToken string
}

// RefreshFunc performs the actual refresh network call. Implementations
// must use a transport that is NOT routed back through the coordinator,
// or a failing refresh would recurse into itself.
type RefreshFunc func(ctx context.Context) (*AuthResult, error)

type refreshResult struct {
	token string
	err   error
}

// Coordinator serializes token refreshes: however many requests fail
// with an auth error at once, exactly one refresh call goes out.
//
// Later failures arriving mid-refresh enqueue a waiter and block until
// the in-flight refresh settles. On success the session store is updated
// BEFORE any waiter is released, so every replay sees the new token; on
// failure every waiter is rejected and the session is cleared (forced
// logout). The in-progress flag is cleared last, after the queue has
// drained, so a failure arriving during the drain still classifies as
// "refresh in progress".
type Coordinator struct {
	mu         sync.Mutex
	refreshing bool
	waiters    []chan refreshResult

	session *Session
	refresh RefreshFunc
}

// NewCoordinator wires a coordinator to its session store and refresh call.
func NewCoordinator(session *Session, refresh RefreshFunc) *Coordinator {
	return &Coordinator{
		session: session,
		refresh: refresh,
	}
}

/*
AwaitToken is the single entry point for auth-failure recovery.

Description: Called after a request fails with an auth error. Either joins
the in-flight refresh as a FIFO waiter, or becomes the one caller that
performs it. Returns the fresh access token to replay the failed request
with.

Parameters:
  - ctx: Deadline/cancellation for THIS caller's wait. The reference
    behavior waits indefinitely; callers layer timeouts on top via ctx.

Returns:
  - string: The renewed access token
  - error: The refresh failure, delivered identically to every waiter
*/
func (coordinator *Coordinator) AwaitToken(ctx context.Context) (string, error) {

	coordinator.mu.Lock()

	// 1. A refresh is already in flight: enqueue and wait our turn.
	if coordinator.refreshing {
		waiter := make(chan refreshResult, 1)
		coordinator.waiters = append(coordinator.waiters, waiter)
		coordinator.mu.Unlock()

		select {
		case result := <-waiter:
			return result.token, result.err
		case <-ctx.Done():
			// The queue entry stays; the eventual send lands in the
			// buffered channel and is discarded with it.
			return "", ctx.Err()
		}
	}

	// 2. We are the refresher. Claim the flag, then call out without
	// holding the lock so waiters can enqueue meanwhile.
	coordinator.refreshing = true
	coordinator.mu.Unlock()

	outcome, err := coordinator.refresh(ctx)

	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()

	waiters := coordinator.waiters
	coordinator.waiters = nil

	// 3. Session first: no waiter may observe the old token after release.
	var result refreshResult
	if err != nil {
		coordinator.session.Logout()
		result = refreshResult{err: err}
	} else {
		coordinator.session.SetAuth(outcome.User, outcome.AccessToken)
		result = refreshResult{token: outcome.AccessToken}
	}

	// 4. Drain in enqueue order. Buffered channels make this non-blocking.
	for _, waiter := range waiters {
		waiter <- result
	}

	// 5. Flag reset is the last step (the deferred unlock follows it).
	coordinator.refreshing = false

	return result.token, result.err
}

// pendingWaiters reports the current queue depth. Test hook.
func (coordinator *Coordinator) pendingWaiters() int {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()
	return len(coordinator.waiters)
}
