package model

import "time"

// Boat is a vessel registered by a user so it can be attached to berth
// reservations.  Ownership is a plain foreign key by value; the legacy
// schema does not declare a constraint.
//
// Fields:
//  ID        – primary key (boats.boat_id, boat_ID or id).
//  UserID    – owning user (boats.user_id, user_ID or userid).
//  Name      – boat name (boats.boat_name or name).
//  LengthFt  – overall length in whole feet (boats.boat_length, length_ft or length).
//  CreatedAt – creation timestamp (boats.date_created or created_at).
type Boat struct {
	ID        uint64    // boats.boat_id | boat_ID | id
	UserID    uint64    // boats.user_id | user_ID | userid
	Name      string    // boats.boat_name | name
	LengthFt  int       // boats.boat_length | length_ft | length
	CreatedAt time.Time // boats.date_created | created_at
}
