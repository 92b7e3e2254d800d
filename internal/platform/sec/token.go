// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and session token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, token signing) from
// the domain logic. The [TokenCodec] is injected into the session gate; it never
// touches storage, so every request can be verified with one MAC computation.
package sec

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

// ErrVerification is the only error [TokenCodec.Decode] returns.
//
// # Why a single error?
//
// Bad signature, corrupt payload, wrong format, oversized input and expiry all
// collapse here so a caller (or attacker) cannot tell which check failed.
var ErrVerification = errors.New("sec: session token verification failed")

// derivedKeyLength is the HMAC-SHA256 key size produced by HKDF.
const derivedKeyLength = 32

// Claims is the identity data bound into a session token.
type Claims struct {
	// Subject is the authenticated principal. Required.
	Subject string

	// IssuedAt is when the session started. Required; stored with second precision.
	IssuedAt time.Time

	// Extra holds optional extension fields. An empty map decodes as nil.
	Extra map[string]string
}

// TokenOptions configures a [TokenCodec].
type TokenOptions struct {
	// Label is the domain-separation tag mixed into key derivation.
	Label string

	// MaxAge is the validity window measured from Claims.IssuedAt.
	MaxAge time.Duration

	// MaxLength rejects longer tokens before any parsing.
	MaxLength int

	// Now overrides the clock. Defaults to [time.Now].
	Now func() time.Time
}

// sessionClaims is the signed wire payload.
type sessionClaims struct {
	jwt.RegisteredClaims

	// Extension fields are abbreviated to keep the cookie small.
	Extra map[string]string `json:"ext,omitempty"`
}

// TokenCodec signs and verifies session tokens as HS256 JWS strings.
//
// # Concurrency
//
// A TokenCodec is immutable after construction and safe for concurrent use.
type TokenCodec struct {
	key       []byte
	label     string
	maxAge    time.Duration
	maxLength int
	now       func() time.Time
	parser    *jwt.Parser
}

// NewTokenCodec derives the signing key from secret and label and returns a
// ready codec. It fails fast on an uninitialized secret or unusable options.
func NewTokenCodec(secret Secret, options TokenOptions) (*TokenCodec, error) {
	if secret.IsZero() {
		return nil, fmt.Errorf("%w: secret is not initialized", ErrInsecureSecret)
	}
	if options.Label == "" {
		return nil, errors.New("sec: token label must not be empty")
	}
	if options.MaxAge < time.Second {
		return nil, fmt.Errorf("sec: token max age must be at least 1s, got %s", options.MaxAge)
	}
	if options.MaxLength <= 0 {
		return nil, fmt.Errorf("sec: token max length must be positive, got %d", options.MaxLength)
	}

	now := options.Now
	if now == nil {
		now = time.Now
	}

	key, err := deriveKey(secret, options.Label)
	if err != nil {
		return nil, err
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(options.Label),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(now),
	)

	return &TokenCodec{
		key:       key,
		label:     options.Label,
		maxAge:    options.MaxAge,
		maxLength: options.MaxLength,
		now:       now,
		parser:    parser,
	}, nil
}

// deriveKey expands the secret into a label-specific HMAC key.
func deriveKey(secret Secret, label string) ([]byte, error) {
	reader := hkdf.New(sha256.New, secret.key, nil, []byte(label))

	key := make([]byte, derivedKeyLength)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("sec: failed to derive signing key: %w", err)
	}
	return key, nil
}

// MaxAge returns the validity window the codec enforces.
func (codec *TokenCodec) MaxAge() time.Duration {
	return codec.maxAge
}

// Encode signs claims into a URL-safe token.
//
// The output is deterministic for identical claims; it embeds the issue time
// and an expiry of IssuedAt + MaxAge.
func (codec *TokenCodec) Encode(claims Claims) (string, error) {
	if claims.Subject == "" {
		return "", errors.New("sec: claims subject must not be empty")
	}
	if claims.IssuedAt.IsZero() {
		return "", errors.New("sec: claims issued-at must be set")
	}

	issuedAt := claims.IssuedAt.Truncate(time.Second)
	extra := claims.Extra
	if len(extra) == 0 {
		extra = nil
	}

	payload := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			Audience:  jwt.ClaimStrings{codec.label},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(codec.maxAge)),
		},
		Extra: extra,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, payload).SignedString(codec.key)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign session token: %w", err)
	}

	if len(signed) > codec.maxLength {
		return "", fmt.Errorf("sec: session token exceeds %d bytes", codec.maxLength)
	}

	return signed, nil
}

// Decode verifies token and returns the claims it carries.
//
// # Flow
//  1. Reject empty or oversized input without parsing.
//  2. Parse with strict base64url, HS256 only, audience = label, exp and iat required.
//     The signature check inside the parser is a constant-time HMAC comparison.
//  3. Enforce IssuedAt + MaxAge against the codec clock (exclusive bound).
//
// Every failure returns [ErrVerification].
func (codec *TokenCodec) Decode(token string) (Claims, error) {
	if token == "" || len(token) > codec.maxLength {
		return Claims{}, ErrVerification
	}

	payload := &sessionClaims{}
	parsed, err := codec.parser.ParseWithClaims(token, payload, codec.verificationKey)
	if err != nil || !parsed.Valid {
		return Claims{}, ErrVerification
	}

	if payload.Subject == "" || payload.IssuedAt == nil {
		return Claims{}, ErrVerification
	}

	issuedAt := payload.IssuedAt.Time.UTC()
	if !codec.now().Before(issuedAt.Add(codec.maxAge)) {
		return Claims{}, ErrVerification
	}

	return Claims{
		Subject:  payload.Subject,
		IssuedAt: issuedAt,
		Extra:    payload.Extra,
	}, nil
}

// verificationKey is the [jwt.Keyfunc]; the method allow-list lives in the parser.
func (codec *TokenCodec) verificationKey(*jwt.Token) (any, error) {
	return codec.key, nil
}
