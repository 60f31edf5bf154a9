package model

// Reservation is a berth booking as read by the account page.  This core
// never creates or edits reservations; it lists them for the signed-in
// user and rewrites the email linkage when an account is deleted.
// Reservations are keyed by the user's email rather than a numeric id,
// which is why deletion anonymizes instead of cascading.
//
// Fields:
//  Email     – booking owner (reservations.user_email or email).
//  Title     – booking label (reservations.title or reservation_name).
//  Location  – berth location (reservations.location, slip_number or slot).
//  Status    – booking state (reservations.status or state).
//  StartDate – start of the booking as stored; empty when only created_at exists.
type Reservation struct {
	Email     string // reservations.user_email | email
	Title     string // reservations.title | reservation_name
	Location  string // reservations.location | slip_number | slot
	Status    string // reservations.status | state
	StartDate string // reservations.start_date
}
