package service

import (
	"context"
	"fmt"

	"user-api/internal/config"
	"user-api/internal/models"

	"github.com/rs/zerolog/log"
)

// CachedUsers returns the full listing, stored password values included,
// from the response cache. hit reports whether the cache answered. A broken
// cache backend degrades to reading the store.
func (s *UserService) CachedUsers(ctx context.Context) (users []models.CachedUser, hit bool, err error) {
	cached, ok, err := s.cache.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("response cache read failed, falling back to store")
	} else if ok {
		return cached, true, nil
	}

	gen, genErr := s.cache.Generation(ctx)
	if genErr != nil {
		log.Warn().Err(genErr).Msg("response cache generation read failed, listing will not be cached")
	}

	rows, err := s.store.ListUsers(ctx, 0, 0)
	if err != nil {
		return nil, false, fmt.Errorf("list users for cache: %w", err)
	}

	users = make([]models.CachedUser, 0, len(rows))
	for _, u := range rows {
		users = append(users, models.CachedUser{
			ID:       u.ID,
			Username: u.Name,
			Email:    u.Email,
			Password: u.Password,
		})
	}

	if genErr == nil {
		stored, err := s.cache.Set(ctx, gen, users)
		if err != nil {
			log.Warn().Err(err).Msg("response cache write failed")
		} else if !stored {
			log.Debug().Uint64("generation", gen).Msg("user listing changed while loading, not cached")
		}
	}
	return users, false, nil
}

// invalidateCache clears the cached listing unless the stale policy is on,
// in which case the first populated listing is served until restart.
func (s *UserService) invalidateCache(ctx context.Context) {
	if s.cachePolicy == config.CachePolicyStale {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("response cache invalidation failed")
	}
}
