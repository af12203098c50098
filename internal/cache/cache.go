// Package cache holds the cached full user listing served by /cached-users.
//
// There is exactly one slot, stored under Key. Whether writes clear it is
// decided by the service's cache policy, not by the cache itself.
//
// The slot carries a generation. Invalidate advances it, and Set only stores
// a listing read under the generation that is still current, so a listing
// taken before a write can never be stored after that write cleared the slot.
package cache

import (
	"context"

	"user-api/internal/models"
)

const Key = "user"

type Cache interface {
	// Get returns the cached listing and whether the slot was populated.
	Get(ctx context.Context) ([]models.CachedUser, bool, error)
	// Generation returns the current generation. Read it before taking the
	// listing that will be passed to Set.
	Generation(ctx context.Context) (uint64, error)
	// Set stores users if gen is still the current generation and reports
	// whether it did.
	Set(ctx context.Context, gen uint64, users []models.CachedUser) (bool, error)
	Invalidate(ctx context.Context) error
}
