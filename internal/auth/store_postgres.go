// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/sessiongate/internal/platform/database/schema"
	"github.com/taibuivan/sessiongate/internal/platform/dberr"
)

// # Account Repository

// PostgresAccountRepository implements the AccountRepository interface using pgx.
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to [apperr.AppError]
// types via [dberr.Wrap] to avoid leaking storage implementation details.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new PostgreSQL implementation of the AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

/*
FindByUsername retrieves an active account by its canonical username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *Account: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresAccountRepository) FindByUsername(context context.Context, username string) (*Account, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL`,
		strings.Join(schema.UserAccount.Columns(), ", "),
		schema.UserAccount.Table,
		schema.UserAccount.Username, schema.UserAccount.DeletedAt,
	)

	account := &Account{}
	err := repository.pool.QueryRow(context, query, username).Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "Account", "postgres_account_repo_find_failed")
	}

	return account, nil
}

/*
Create persists a new account record into the users.account table.

Parameters:
  - context: context.Context
  - account: *Account (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate username or connectivity errors
*/
func (repository *PostgresAccountRepository) Create(context context.Context, account *Account) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4)`,
		schema.UserAccount.Table,
		strings.Join(schema.UserAccount.Columns(), ", "),
	)

	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}

	_, err := repository.pool.Exec(context, query,
		account.ID,
		account.Username,
		account.PasswordHash,
		account.CreatedAt,
	)

	return dberr.Wrap(err, "Account", "postgres_account_repo_create_failed")
}
