// Package repository defines error types that are reused across multiple
// repositories. These sentinel values let handlers distinguish failure
// scenarios without inspecting driver error strings themselves: a
// duplicate email on registration, a duplicate boat row, a missing row,
// or a table whose column layout cannot support the requested operation.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when an insert or update would violate the
// unique constraint on users.email. Handlers should translate this into
// the generic "email already registered" message.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicateBoat is returned when a boat with the same owner, name and
// length already exists. There is no database constraint backing this;
// the repository checks before inserting.
var ErrDuplicateBoat = errors.New("duplicate boat")

// ErrNotFound is returned when a row the caller referenced does not exist
// or is not visible under the caller's ownership scope.
var ErrNotFound = errors.New("not found")

// ErrSchemaIncompatible is returned when none of the known column-name
// variants for a table are present, so the operation cannot be expressed
// against this deployment's schema. Read paths degrade to empty results;
// write paths surface the error.
var ErrSchemaIncompatible = errors.New("schema incompatible")

// isDuplicateKey reports whether err is a unique-constraint violation.
// MySQL reports error 1062; SQLite (used by the test fixtures) reports a
// "UNIQUE constraint failed" message.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1062") || strings.Contains(msg, "unique constraint")
}
