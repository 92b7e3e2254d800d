// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/taibuivan/sessiongate/internal/platform/apperr"
	"github.com/taibuivan/sessiongate/internal/platform/sec"
	"github.com/taibuivan/sessiongate/internal/platform/validate"
)

// Service implements account provisioning and the account-backed credential
// predicate.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing or the
// lookup path must keep unknown-user and wrong-password timing identical.
type Service struct {
	accountRepository AccountRepository
	decoyHash         string
}

// NewService constructs a new [Service]. It prepares the decoy hash used for
// unknown usernames, so construction costs one bcrypt round.
func NewService(repository AccountRepository) (*Service, error) {
	decoy, err := sec.NewDecoyHash()
	if err != nil {
		return nil, fmt.Errorf("auth_service_decoy_failed: %w", err)
	}

	return &Service{
		accountRepository: repository,
		decoyHash:         decoy,
	}, nil
}

// # Registration Flow

// RegisterInput holds the data required to provision an account.
type RegisterInput struct {
	Username string
	Password string
}

/*
Register validates, hashes, and persists a new account.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *Account: Created entity
  - err: Validation, Conflict (if the username exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*Account, error) {
	username := CanonicalUsername(input.Username)

	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		MaxLen(FieldUsername, username, MaxUsernameLength).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8).
		MaxBytes(FieldPassword, input.Password, MaxPasswordLength)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Time-sortable ID to prevent PG index fragmentation.
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("auth_service_id_failed: %w", err)
	}

	account := &Account{
		ID:           id.String(),
		Username:     username,
		PasswordHash: hashedPassword,
	}

	if err := service.accountRepository.Create(context, account); err != nil {
		return nil, err
	}

	return account, nil
}

// # Authentication Flow

/*
Authenticate reports whether username and password match a stored account.

Description: Looks the account up by canonical username and always performs
exactly one bcrypt comparison, against the decoy hash when the account is
missing, so response time does not reveal whether a username exists.

Returns:
  - bool: true only for a matching pair
  - err: storage failures other than "not found"
*/
func (service *Service) Authenticate(context context.Context, username, password string) (bool, error) {
	canonical := CanonicalUsername(username)

	if canonical == "" || len(canonical) > MaxUsernameLength || len(password) > MaxPasswordLength {
		sec.CheckPasswordHash(password, service.decoyHash)
		return false, nil
	}

	account, err := service.accountRepository.FindByUsername(context, canonical)
	if err != nil {
		sec.CheckPasswordHash(password, service.decoyHash)
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("auth_service_lookup_failed: %w", err)
	}

	return sec.CheckPasswordHash(password, account.PasswordHash), nil
}
