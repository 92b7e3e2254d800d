// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sessiongate/internal/auth"
	"github.com/taibuivan/sessiongate/internal/platform/migration"
)

/*
TestConvertToPgx5DSN verifies the scheme rewrite expected by golang-migrate.
*/
func TestConvertToPgx5DSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{"postgres_scheme", "postgres://u:p@db:5432/app", "pgx5://u:p@db:5432/app"},
		{"postgresql_scheme", "postgresql://u:p@db/app", "pgx5://u:p@db/app"},
		{"already_pgx5", "pgx5://db/app", "pgx5://db/app"},
		{"keyword_dsn", "host=db user=u", "host=db user=u"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, migration.ConvertToPgx5DSN(tt.dsn))
		})
	}
}

/*
TestSource checks the embedded fallback and the directory override.
*/
func TestSource(t *testing.T) {
	embedded := fstest.MapFS{"000001_x.up.sql": &fstest.MapFile{Data: []byte("SELECT 1;")}}

	assert.Equal(t, fs.FS(embedded), migration.Source("", embedded))

	dir := t.TempDir()
	source := migration.Source(dir, embedded)
	assert.NotEqual(t, fs.FS(embedded), source)
}

/*
TestEmbeddedAccountMigrations ensures the account schema ships in the binary
as a matched up/down pair.
*/
func TestEmbeddedAccountMigrations(t *testing.T) {
	entries, err := fs.ReadDir(auth.Migrations(), ".")
	require.NoError(t, err)

	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	assert.Contains(t, names, "000001_create_account.up.sql")
	assert.Contains(t, names, "000001_create_account.down.sql")

	up, err := fs.ReadFile(auth.Migrations(), "000001_create_account.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "users.account")
}
