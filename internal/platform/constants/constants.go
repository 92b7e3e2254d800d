// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire service.

It defines default timeouts, rate limits, routes, and cross-cutting keys that are
shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Session: Cookie defaults and the token domain-separation label.
  - Routes: Entry points the gate redirects to.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "sessiongate"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// StartupTimeout bounds dependency connections during boot.
	StartupTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Session

const (
	// SessionTokenLabel is mixed into key derivation and bound as the token
	// audience, so a secret shared with another application cannot mint
	// tokens this service accepts.
	SessionTokenLabel = "sessiongate.session.v1"

	// DefaultSessionCookieName is the cookie carrying the session token.
	DefaultSessionCookieName = "session"

	// DefaultTokenMaxLength rejects oversized cookies before any parsing.
	DefaultTokenMaxLength = 4096

	// SessionCookiePath scopes the cookie to the whole site.
	SessionCookiePath = "/"
)

// # Routes

const (
	PathLogin  = "/login"
	PathLogout = "/logout"
	PathHome   = "/"
	PathHealth = "/healthz"
	PathReady  = "/ready"
)

// # Login Error Codes
// Query values accepted by GET /login. Each maps to one fixed message.

const (
	LoginErrorInvalidCredentials = "invalid_credentials"
	LoginErrorTooManyAttempts    = "too_many_attempts"
	LoginErrorUnavailable        = "unavailable"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderContentType   = "Content-Type"
	HeaderCacheControl  = "Cache-Control"
)

// # JSON Field Identifiers

const (
	FieldOK     = "ok"
	FieldError  = "error"
	FieldStatus = "status"
	FieldChecks = "checks"
	FieldApp    = "app"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixLoginAttempt = "auth:login_attempt:"
)
