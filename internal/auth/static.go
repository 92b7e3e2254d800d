// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/taibuivan/sessiongate/internal/platform/sec"
)

// StaticAuthenticator accepts exactly one configured username/password pair.
//
// The password is kept only as a bcrypt hash. Every attempt compares the
// username in constant time and runs the bcrypt check regardless of the
// username result, so an unknown user and a wrong password cost the same.
type StaticAuthenticator struct {
	username     string
	passwordHash string
}

// NewStaticAuthenticator hashes password once at startup.
func NewStaticAuthenticator(username, password string) (*StaticAuthenticator, error) {
	if username == "" || password == "" {
		return nil, errors.New("auth: static credentials must not be empty")
	}
	if len(password) > MaxPasswordLength {
		return nil, fmt.Errorf("auth: static password exceeds %d bytes", MaxPasswordLength)
	}

	hash, err := sec.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to hash static password: %w", err)
	}

	return &StaticAuthenticator{username: username, passwordHash: hash}, nil
}

// Authenticate implements the session credential predicate. It never fails.
func (authenticator *StaticAuthenticator) Authenticate(_ context.Context, username, password string) (bool, error) {
	usernameMatches := sec.EqualConstantTime(username, authenticator.username)
	passwordMatches := sec.CheckPasswordHash(password, authenticator.passwordHash)
	return usernameMatches && passwordMatches, nil
}
