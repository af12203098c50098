package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"user-api/internal/external"
	"user-api/internal/models"
)

// ExternalProfile merges the explicitly identified local user with the
// public profile of username. An empty username uses the configured default.
func (s *UserService) ExternalProfile(ctx context.Context, username string, localUserID int64) (*models.MergedProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		username = s.githubUser
	}
	if username == "" {
		return nil, models.NewValidationError("username", "is required")
	}

	user, err := s.store.GetUserByID(ctx, localUserID)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", localUserID, err)
	}
	if user == nil {
		return nil, models.NewError(models.ErrNotFound, "Local user not found")
	}

	profile, err := s.profiles.FetchProfile(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrExternalNotFound):
			return nil, models.WrapError(models.ErrExternalNotFound, "Github user not found", err)
		case errors.Is(err, models.ErrExternalUnavailable):
			return nil, models.WrapError(models.ErrExternalUnavailable, "Github is unavailable", err)
		}
		return nil, fmt.Errorf("fetch profile %q: %w", username, err)
	}

	merged := external.Merge(user, profile)
	return &merged, nil
}
