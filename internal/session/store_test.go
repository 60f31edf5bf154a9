package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	ctx := context.Background()

	id, err := s.Create(ctx, Data{UserID: "7", DisplayName: "Alice Adams"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	d, ok, err := s.Get(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "7", d.UserID)
	assert.Equal(t, "Alice Adams", d.DisplayName)

	require.NoError(t, s.Update(ctx, id, Data{UserID: "7", DisplayName: "Alice B"}))
	d, ok, _ = s.Get(ctx, id)
	require.True(t, ok)
	assert.Equal(t, "Alice B", d.DisplayName)

	require.NoError(t, s.Destroy(ctx, id))
	_, ok, err = s.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreUnknownID(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	_, ok, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	// Destroying an unknown id is not an error.
	assert.NoError(t, s.Destroy(context.Background(), "nope"))
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore(10 * time.Millisecond)
	id, err := s.Create(context.Background(), Data{UserID: "1"})
	require.NoError(t, err)

	time.Sleep(25 * time.Millisecond)
	_, ok, err := s.Get(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionIDsAreUnique(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := s.Create(context.Background(), Data{UserID: "1"})
		require.NoError(t, err)
		require.Len(t, id, 64) // 32 random bytes, hex encoded
		require.False(t, seen[id], "duplicate session id")
		seen[id] = true
	}
}
