// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the credential side of sign-in.

It supplies the credential predicate consumed by the session gate, the
account storage behind it, login attempt throttling, and the HTTP entry points
for the login and logout pages.

Architecture:

  - Authenticators: Static (configured pair) and account-backed (PostgreSQL).
    Both take the same bcrypt time for unknown users and wrong passwords.
  - Repository: [AccountRepository] abstracts storage; pgx implements it.
  - Throttling: [AttemptLimiter] counts attempts per client IP (Redis).
  - Handler: Form parsing, redirects and cookies. No business logic.
*/
package auth

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// # Domain Entities

// Account is a stored sign-in identity.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	CreatedAt    time.Time `json:"created_at"`
}

// # Field Identifiers

const (
	FieldUsername = "username"
	FieldPassword = "password"
)

// # Input Limits

const (
	// MaxUsernameLength bounds the lookup key; longer input is rejected as invalid credentials.
	MaxUsernameLength = 64

	// MaxPasswordLength is bcrypt's input limit. Longer passwords are rejected rather than truncated.
	MaxPasswordLength = 72
)

// # Username Canonicalisation

// CanonicalUsername maps visually equivalent spellings to one lookup key:
// NFKC normalization, Unicode case folding, surrounding whitespace trimmed.
func CanonicalUsername(username string) string {
	normalized := norm.NFKC.String(strings.TrimSpace(username))
	// A Caser is stateful; build one per call.
	return cases.Fold().String(normalized)
}
