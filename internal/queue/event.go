// Package queue defines message payloads exchanged over the message broker.
package queue

// AccountEventsQueue is the durable queue carrying account lifecycle events.
const AccountEventsQueue = "account.events"

// AccountRegisteredEvent is published when registration stores a new user.
// It carries enough for downstream consumers to log or notify without
// querying the primary database.
type AccountRegisteredEvent struct {
	UserID      uint64 `json:"user_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	CreatedAt   string `json:"created_at"`
}

// AccountDeletedEvent is published after an account row is removed and
// its reservations anonymized. Email is intentionally absent: the point
// of anonymization is that the linkage is gone, so the audit trail only
// records the numeric id and how many rows were rewritten.
type AccountDeletedEvent struct {
	UserID                 uint64 `json:"user_id"`
	AnonymizedReservations int64  `json:"anonymized_reservations"`
	DeletedAt              string `json:"deleted_at"`
}

// Envelope wraps either event type with a discriminator so a single
// queue can carry both.
type Envelope struct {
	Kind       string                  `json:"kind"` // "registered" | "deleted"
	Registered *AccountRegisteredEvent `json:"registered,omitempty"`
	Deleted    *AccountDeletedEvent    `json:"deleted,omitempty"`
}
