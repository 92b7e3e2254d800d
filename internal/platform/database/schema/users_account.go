// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns queried by the repositories,
// so a rename in a migration is a one-line change here.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table     string
	ID        string
	Username  string
	Password  string
	CreatedAt string
	DeletedAt string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:     "users.account",
	ID:        "id",
	Username:  "username",
	Password:  "passwordhash",
	CreatedAt: "createdat",
	DeletedAt: "deletedat",
}

// Columns returns the columns hydrated into an account, in scan order.
func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.Username, t.Password, t.CreatedAt}
}
