// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session implements the stateless session gate.

It orchestrates login (credential check, token issue, cookie), logout (cookie
clear) and per-request identity resolution on top of a signed token codec. No
session is ever stored: the cookie value is the whole session state.

Architecture:

  - Gate: Pure orchestration over an [Authenticator] and a [TokenCodec].
  - Outcome / Identity: Explicit result values; failures never panic.
  - Cookies: Built here so client-side Max-Age and server-side expiry agree.

# Limitation

There is no revocation list. Logout clears the cookie in the browser, but a
copy of the token replayed afterwards stays valid until it expires.
*/
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/taibuivan/sessiongate/internal/platform/sec"
)

// ErrCredentialRejected is returned by [Gate.Login] for a failed credential check.
// It never says which field was wrong.
var ErrCredentialRejected = errors.New("session: credentials rejected")

// # Contracts

// Authenticator is the credential predicate supplied by the application.
//
// Implementations must take the same time for an unknown username as for a
// wrong password. The error return is reserved for I/O failures.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (bool, error)
}

// AuthenticatorFunc adapts a plain function to [Authenticator].
type AuthenticatorFunc func(ctx context.Context, username, password string) (bool, error)

// Authenticate calls f.
func (f AuthenticatorFunc) Authenticate(ctx context.Context, username, password string) (bool, error) {
	return f(ctx, username, password)
}

// TokenCodec is the subset of [sec.TokenCodec] the gate depends on.
type TokenCodec interface {
	Encode(claims sec.Claims) (string, error)
	Decode(token string) (sec.Claims, error)
	MaxAge() time.Duration
}

// CookieOptions describes the session cookie attributes.
type CookieOptions struct {
	Name   string
	Path   string
	Secure bool
}

// Options configures a [Gate].
type Options struct {
	Cookie CookieOptions

	// Now overrides the clock used for IssuedAt. Defaults to [time.Now].
	Now func() time.Time

	// Observe, when set, receives every login state transition. Used for audit logs.
	Observe func(ctx context.Context, from, to State)
}

// # Gate

// Gate issues, clears and resolves session cookies.
//
// # Concurrency
//
// Gate holds only immutable configuration and is safe for concurrent use.
type Gate struct {
	authenticator Authenticator
	codec         TokenCodec
	cookie        CookieOptions
	now           func() time.Time
	observe       func(ctx context.Context, from, to State)
}

// NewGate constructs a [Gate].
func NewGate(authenticator Authenticator, codec TokenCodec, options Options) (*Gate, error) {
	if authenticator == nil || codec == nil {
		return nil, errors.New("session: authenticator and codec are required")
	}

	cookie := options.Cookie
	if cookie.Name == "" {
		return nil, errors.New("session: cookie name must not be empty")
	}
	if cookie.Path == "" {
		cookie.Path = "/"
	}

	now := options.Now
	if now == nil {
		now = time.Now
	}

	observe := options.Observe
	if observe == nil {
		observe = func(context.Context, State, State) {}
	}

	return &Gate{
		authenticator: authenticator,
		codec:         codec,
		cookie:        cookie,
		now:           now,
		observe:       observe,
	}, nil
}

// Outcome is the result of a login attempt.
type Outcome struct {
	State   State
	Subject string
	Token   string

	// Cookie must be attached to the response when State is StateAuthenticated.
	Cookie *http.Cookie
}

/*
Login checks credentials once and, on success, issues a session token.

Returns:
  - Outcome{StateAuthenticated, Token, Cookie} on success.
  - Outcome{StateRejected} and [ErrCredentialRejected] on bad credentials.
  - Outcome{StateRejected} and a wrapped error when the predicate or signing fails.
*/
func (gate *Gate) Login(ctx context.Context, username, password string) (Outcome, error) {
	rejected := Outcome{State: StateRejected}
	gate.observe(ctx, StateAnonymous, StateAuthenticating)

	ok, err := gate.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		gate.observe(ctx, StateAuthenticating, StateRejected)
		return rejected, fmt.Errorf("session: credential check failed: %w", err)
	}
	if !ok {
		gate.observe(ctx, StateAuthenticating, StateRejected)
		return rejected, ErrCredentialRejected
	}

	token, err := gate.codec.Encode(sec.Claims{
		Subject:  username,
		IssuedAt: gate.now(),
	})
	if err != nil {
		gate.observe(ctx, StateAuthenticating, StateRejected)
		return rejected, fmt.Errorf("session: failed to issue token: %w", err)
	}

	gate.observe(ctx, StateAuthenticating, StateAuthenticated)
	return Outcome{
		State:   StateAuthenticated,
		Subject: username,
		Token:   token,
		Cookie:  gate.sessionCookie(token),
	}, nil
}

// Logout returns the cookie that clears the session in the browser.
// It needs no active session and always returns the same instruction.
func (gate *Gate) Logout() *http.Cookie {
	return &http.Cookie{
		Name:     gate.cookie.Name,
		Value:    "",
		Path:     gate.cookie.Path,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		Secure:   gate.cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Identity is the per-request classification of a caller.
type Identity struct {
	State   State
	Subject string
}

// Resolve classifies request as Authenticated (with its subject) or Anonymous.
// It performs no I/O beyond the MAC check and never returns an error.
func (gate *Gate) Resolve(request *http.Request) Identity {
	anonymous := Identity{State: StateAnonymous}

	cookie, err := request.Cookie(gate.cookie.Name)
	if err != nil || cookie.Value == "" {
		return anonymous
	}

	claims, err := gate.codec.Decode(cookie.Value)
	if err != nil {
		return anonymous
	}

	return Identity{State: StateAuthenticated, Subject: claims.Subject}
}

// IdentityOf returns the authenticated subject of request, if any.
func (gate *Gate) IdentityOf(request *http.Request) (string, bool) {
	identity := gate.Resolve(request)
	return identity.Subject, identity.State == StateAuthenticated
}

// sessionCookie builds the cookie carrying token. Max-Age equals the codec's
// validity window so the browser drops the cookie when the server would.
func (gate *Gate) sessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     gate.cookie.Name,
		Value:    token,
		Path:     gate.cookie.Path,
		MaxAge:   int(gate.codec.MaxAge() / time.Second),
		Secure:   gate.cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
