// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"errors"
	"fmt"
	"log/slog"
)

// # Secret Policy

const (
	// MinSecretLength is the minimum number of bytes accepted as signing key material.
	MinSecretLength = 32

	// minSecretDistinctBytes rejects padded or repeated placeholders such as "aaaa...".
	minSecretDistinctBytes = 8

	redacted = "[REDACTED]"
)

// ErrInsecureSecret is returned when the signing secret is missing or too weak.
// It is a startup error: the process must not serve requests without a usable key.
var ErrInsecureSecret = errors.New("sec: insecure session secret")

// Secret is the process-wide signing key material.
//
// # Safety
//
// The raw bytes are private and copied on construction. String and LogValue
// always render a placeholder, so a Secret passed to fmt or slog by mistake
// never reaches the logs.
type Secret struct {
	key []byte
}

// NewSecret validates raw key material and wraps it in a [Secret].
func NewSecret(raw string) (Secret, error) {
	if len(raw) < MinSecretLength {
		return Secret{}, fmt.Errorf("%w: need at least %d bytes, got %d", ErrInsecureSecret, MinSecretLength, len(raw))
	}

	distinct := make(map[byte]struct{}, minSecretDistinctBytes)
	for i := 0; i < len(raw); i++ {
		distinct[raw[i]] = struct{}{}
	}
	if len(distinct) < minSecretDistinctBytes {
		return Secret{}, fmt.Errorf("%w: too few distinct characters", ErrInsecureSecret)
	}

	key := make([]byte, len(raw))
	copy(key, raw)
	return Secret{key: key}, nil
}

// IsZero reports whether the Secret was never initialized through [NewSecret].
func (s Secret) IsZero() bool {
	return len(s.key) == 0
}

// String implements [fmt.Stringer] without revealing the key.
func (s Secret) String() string { return redacted }

// GoString keeps %#v from dumping the key bytes.
func (s Secret) GoString() string { return "sec.Secret{" + redacted + "}" }

// LogValue implements [slog.LogValuer] without revealing the key.
func (s Secret) LogValue() slog.Value { return slog.StringValue(redacted) }
