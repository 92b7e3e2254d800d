// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

// # Request Lifecycle States

// State classifies a request within a single lifecycle. Nothing is persisted
// between requests; a token-bearing request starts again at StateAnonymous.
type State int

const (
	// Initial state of every request.
	StateAnonymous State = iota

	// Credentials submitted, predicate not yet answered.
	StateAuthenticating

	// Token issued on login, or a valid token presented.
	StateAuthenticated

	// Credentials refused. Equivalent to anonymous; no token issued.
	StateRejected
)

// String returns the snake_case name used in logs.
func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}
