package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// openTestDB returns an in-memory SQLite database with the given schema
// applied. The repositories build their SQL from sniffed column names, so
// the same code paths run here as against MySQL; tests pick schemas with
// different column-name variants on purpose.
func openTestDB(t *testing.T, ddl ...string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// One connection, or each pool conn would see its own empty memory db.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range ddl {
		_, err := db.ExecContext(context.Background(), stmt)
		require.NoError(t, err)
	}
	return db
}

// Canonical layout: split name, id primary key, password_hash.
const usersCanonicalDDL = `CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP
)`

// Legacy layout: uid key, passwd hash column, single combined name.
const usersLegacyDDL = `CREATE TABLE users (
	uid INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL UNIQUE,
	passwd TEXT NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT ''
)`

const boatsCanonicalDDL = `CREATE TABLE boats (
	boat_id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	boat_name TEXT NOT NULL,
	boat_length INTEGER NOT NULL,
	date_created TIMESTAMP
)`

// Ownerless layout: the degradation case for edit/delete scoping.
const boatsNoOwnerDDL = `CREATE TABLE boats (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	length_ft INTEGER NOT NULL
)`

const reservationsCanonicalDDL = `CREATE TABLE reservations (
	user_email TEXT NOT NULL,
	title TEXT,
	location TEXT,
	status TEXT,
	start_date TEXT,
	created_at TEXT
)`

// Legacy layout: email/state/slot names, no start_date column.
const reservationsLegacyDDL = `CREATE TABLE reservations (
	email TEXT NOT NULL,
	reservation_name TEXT,
	slot TEXT,
	state TEXT,
	created_at TEXT
)`
