package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoatRepoAddAndList(t *testing.T) {
	db := openTestDB(t, boatsCanonicalDDL)
	r := NewBoatRepo(db, nil)
	ctx := context.Background()

	require.NoError(t, r.Add(ctx, 7, "Orca", 24))
	require.NoError(t, r.Add(ctx, 7, "Pelican", 18))
	require.NoError(t, r.Add(ctx, 8, "Orca", 24)) // same boat, different owner is fine

	boats, err := r.ListByOwner(ctx, 7)
	require.NoError(t, err)
	require.Len(t, boats, 2)
	assert.Equal(t, "Orca", boats[0].Name)
	assert.Equal(t, 24, boats[0].LengthFt)
	assert.Equal(t, uint64(7), boats[0].UserID)
	assert.Equal(t, "Pelican", boats[1].Name)
}

func TestBoatRepoRejectsExactDuplicate(t *testing.T) {
	db := openTestDB(t, boatsCanonicalDDL)
	r := NewBoatRepo(db, nil)
	ctx := context.Background()

	require.NoError(t, r.Add(ctx, 7, "Orca", 24))
	assert.ErrorIs(t, r.Add(ctx, 7, "Orca", 24), ErrDuplicateBoat)
	// Same name at a different length is a different boat.
	assert.NoError(t, r.Add(ctx, 7, "Orca", 30))
}

func TestBoatRepoUpdateScopedToOwner(t *testing.T) {
	db := openTestDB(t, boatsCanonicalDDL)
	r := NewBoatRepo(db, nil)
	ctx := context.Background()

	require.NoError(t, r.Add(ctx, 7, "Orca", 24))
	boats, err := r.ListByOwner(ctx, 7)
	require.NoError(t, err)
	boatID := boats[0].ID

	// Another user cannot touch the row.
	assert.ErrorIs(t, r.Update(ctx, 8, boatID, "Stolen", 10), ErrNotFound)
	assert.ErrorIs(t, r.Delete(ctx, 8, boatID), ErrNotFound)

	// The owner can.
	require.NoError(t, r.Update(ctx, 7, boatID, "Orca II", 26))
	boats, err = r.ListByOwner(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Orca II", boats[0].Name)
	assert.Equal(t, 26, boats[0].LengthFt)

	require.NoError(t, r.Delete(ctx, 7, boatID))
	boats, err = r.ListByOwner(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, boats)
}

func TestBoatRepoDeleteUnknown(t *testing.T) {
	db := openTestDB(t, boatsCanonicalDDL)
	r := NewBoatRepo(db, nil)

	assert.ErrorIs(t, r.Delete(context.Background(), 7, 99), ErrNotFound)
}

// Without an owner column, listing and adding refuse to guess, while
// edit/delete degrade to boat-id-only scoping.
func TestBoatRepoOwnerlessLayout(t *testing.T) {
	db := openTestDB(t, boatsNoOwnerDDL)
	r := NewBoatRepo(db, nil)
	ctx := context.Background()

	boats, err := r.ListByOwner(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, boats)

	assert.ErrorIs(t, r.Add(ctx, 7, "Orca", 24), ErrSchemaIncompatible)

	_, err = db.Exec(`INSERT INTO boats (name, length_ft) VALUES ('Orca', 24)`)
	require.NoError(t, err)

	// Any owner id reaches the row when scoping has degraded.
	require.NoError(t, r.Update(ctx, 999, 1, "Orca II", 26))
	var name string
	require.NoError(t, db.QueryRow("SELECT name FROM boats WHERE id=1").Scan(&name))
	assert.Equal(t, "Orca II", name)

	require.NoError(t, r.Delete(ctx, 999, 1))
}

// A boats table missing even the id/name/length minimum renders as an
// empty list instead of failing the page.
func TestBoatRepoIncompatibleListDegrades(t *testing.T) {
	db := openTestDB(t, `CREATE TABLE boats (something TEXT)`)
	r := NewBoatRepo(db, nil)

	boats, err := r.ListByOwner(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, boats)

	assert.ErrorIs(t, r.Add(context.Background(), 7, "Orca", 24), ErrSchemaIncompatible)
}
