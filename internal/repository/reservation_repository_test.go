package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationRepoListOrderedByStartDate(t *testing.T) {
	db := openTestDB(t, reservationsCanonicalDDL)
	r := NewReservationRepo(db)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO reservations (user_email, title, location, status, start_date) VALUES
		('alice@example.com','Summer berth','B-03','PENDING','2026-06-15'),
		('alice@example.com','Spring haul-out','A-12','CONFIRMED','2026-04-01'),
		('bob@example.com','Dry dock','D-01','CONFIRMED','2026-05-10')`)
	require.NoError(t, err)

	list, err := r.ListByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Spring haul-out", list[0].Title)
	assert.Equal(t, "A-12", list[0].Location)
	assert.Equal(t, "CONFIRMED", list[0].Status)
	assert.Equal(t, "2026-04-01", list[0].StartDate)
	assert.Equal(t, "Summer berth", list[1].Title)
}

// Legacy layout: reservation_name/slot/state columns and no start_date,
// so ordering falls back to created_at.
func TestReservationRepoLegacyLayoutFallbackOrder(t *testing.T) {
	db := openTestDB(t, reservationsLegacyDDL)
	r := NewReservationRepo(db)

	_, err := db.Exec(`INSERT INTO reservations (email, reservation_name, slot, state, created_at) VALUES
		('alice@example.com','Second booking','S-2','PENDING','2026-02-01'),
		('alice@example.com','First booking','S-1','CONFIRMED','2026-01-01')`)
	require.NoError(t, err)

	list, err := r.ListByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "First booking", list[0].Title)
	assert.Equal(t, "S-1", list[0].Location)
	assert.Equal(t, "CONFIRMED", list[0].Status)
	assert.Empty(t, list[0].StartDate)
	assert.Equal(t, "Second booking", list[1].Title)
}

func TestReservationRepoMissingTableDegrades(t *testing.T) {
	db := openTestDB(t) // no reservations table at all
	r := NewReservationRepo(db)

	list, err := r.ListByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestReservationRepoNullColumnsScanClean(t *testing.T) {
	db := openTestDB(t, reservationsCanonicalDDL)
	r := NewReservationRepo(db)

	_, err := db.Exec(`INSERT INTO reservations (user_email) VALUES ('alice@example.com')`)
	require.NoError(t, err)

	list, err := r.ListByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Title)
	assert.Empty(t, list[0].StartDate)
}
