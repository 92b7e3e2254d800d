// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # Account Data Access

// AccountRepository defines the data access contract for sign-in accounts.
type AccountRepository interface {

	/*
		FindByUsername returns the account with the given canonical username.

		Parameters:
		  - context: context.Context
		  - username: string (already passed through [CanonicalUsername])

		Returns:
		  - *Account: Hydrated entity
		  - error: apperr.NotFound when absent, otherwise storage failures
	*/
	FindByUsername(context context.Context, username string) (*Account, error)

	/*
		Create persists a brand-new account.

		Parameters:
		  - context: context.Context
		  - account: *Account (ID and CreatedAt are filled when empty)

		Returns:
		  - error: apperr.Conflict on duplicate username, otherwise storage failures
	*/
	Create(context context.Context, account *Account) error
}
