package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"user-api/internal/models"

	"github.com/stretchr/testify/require"
)

func TestMemoryCache_Lifecycle(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	users := []models.CachedUser{{ID: 1, Username: "alice", Email: "alice@example.com", Password: "hash"}}
	stored, err := c.Set(ctx, 0, users)
	require.NoError(t, err)
	require.True(t, stored)

	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, users, got)

	// Callers must not be able to mutate the slot through returned slices.
	got[0].Username = "mallory"
	again, _, _ := c.Get(ctx)
	require.Equal(t, "alice", again[0].Username)

	require.NoError(t, c.Invalidate(ctx))
	_, ok, err = c.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryCache_EmptyListingIsAHit(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	_, err := c.Set(ctx, 0, nil)
	require.NoError(t, err)
	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Empty(t, got)
}

func TestMemoryCache_ConcurrentPopulation(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = c.Set(ctx, 0, []models.CachedUser{{ID: int64(i), Username: fmt.Sprintf("u%d", i)}})
			_, _, _ = c.Get(ctx)
		}(i)
	}
	wg.Wait()

	got, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1, "one complete write must win")
	require.Equal(t, fmt.Sprintf("u%d", got[0].ID), got[0].Username)
}

func TestMemoryCache_SetAfterInvalidateIsDropped(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	gen, err := c.Generation(ctx)
	require.NoError(t, err)

	// A write lands between reading the listing and storing it.
	require.NoError(t, c.Invalidate(ctx))

	stored, err := c.Set(ctx, gen, []models.CachedUser{{ID: 1, Username: "alice"}})
	require.NoError(t, err)
	require.False(t, stored)
	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	require.False(t, ok, "a listing older than the last invalidation must not be stored")

	next, err := c.Generation(ctx)
	require.NoError(t, err)
	require.Equal(t, gen+1, next)
	stored, err = c.Set(ctx, next, []models.CachedUser{{ID: 1, Username: "alice"}})
	require.NoError(t, err)
	require.True(t, stored)
}
