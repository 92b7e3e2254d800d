// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/sessiongate/internal/platform/apperr"
	"github.com/taibuivan/sessiongate/internal/platform/dberr"
)

/*
TestWrap classifies driver errors.
*/
func TestWrap(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "Account", "find"))

	err := dberr.Wrap(fmt.Errorf("scan: %w", pgx.ErrNoRows), "Account", "find")
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	assert.Equal(t, "Account not found", err.Error())

	err = dberr.Wrap(&pgconn.PgError{Code: pgerrcode.UniqueViolation}, "Account", "create")
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))

	cause := errors.New("connection reset by peer")
	err = dberr.Wrap(cause, "Account", "postgres_account_repo_find_failed")
	assert.ErrorIs(t, err, cause)
	assert.False(t, apperr.IsAppError(err))
	assert.Contains(t, err.Error(), "postgres_account_repo_find_failed")
}
