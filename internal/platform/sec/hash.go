// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// decoyPasswordBytes sizes the random password behind a decoy hash.
const decoyPasswordBytes = 32

// HashPassword hashes a plain-text password using the bcrypt algorithm.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

// NewDecoyHash returns a bcrypt hash of a random password nobody knows.
//
// Comparing against it when an account does not exist makes "unknown user"
// cost the same bcrypt work as "wrong password".
func NewDecoyHash() (string, error) {
	raw := make([]byte, decoyPasswordBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("sec: failed to generate decoy password: %w", err)
	}
	return HashPassword(hex.EncodeToString(raw))
}

// EqualConstantTime compares two strings in time independent of their content
// and of where they first differ. Both sides are hashed first so the length of
// the expected value does not leak either.
func EqualConstantTime(given, expected string) bool {
	givenDigest := sha256.Sum256([]byte(given))
	expectedDigest := sha256.Sum256([]byte(expected))
	return subtle.ConstantTimeCompare(givenDigest[:], expectedDigest[:]) == 1
}
