package model

import "time"

// User represents an account row in the `users` table.  Deployments of the
// legacy schema disagree on column names, so the repository records which
// variant it found alongside the scanned values.  The json tags are omitted
// because handlers define their own response types.
//
// Fields:
//  ID           – primary key (users.id, user_id or uid depending on deployment).
//  Email        – unique email address, stored lowercase.
//  PasswordHash – bcrypt hashed password (users.password_hash, password or passwd).
//  FirstName    – first name when the schema splits the display name.
//  LastName     – last name when the schema splits the display name.
//  Username     – combined display name when the schema stores a single field.
//  Phone        – phone number normalized to DDD-DDD-DDDD on write.
//  CreatedAt    – timestamp of creation, zero when the column is absent.
type User struct {
	ID           uint64    // users.id | user_id | uid
	Email        string    // users.email
	PasswordHash string    // users.password_hash | password | passwd
	FirstName    string    // users.first_name (split schema)
	LastName     string    // users.last_name (split schema)
	Username     string    // users.username | name (combined schema)
	Phone        string    // users.phone
	CreatedAt    time.Time // users.created_at
}

// DisplayName returns the name shown in the navigation bar and on the
// account page.  Split schemas join first and last name; combined schemas
// return the single field.  Falls back to the email when no name is set.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return u.Username
	}
	return u.Email
}
