// Package external talks to the public profile provider (GitHub's REST API
// by default) used by the /external-data merge.
package external

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"user-api/internal/config"
	"user-api/internal/models"
)

type ProfileClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewProfileClient(cfg config.ExternalConfig) *ProfileClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return NewProfileClientWithHTTP(cfg.BaseURL, &http.Client{Timeout: timeout})
}

func NewProfileClientWithHTTP(baseURL string, client *http.Client) *ProfileClient {
	return &ProfileClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// FetchProfile loads the public profile of username. Any non-2xx answer is
// models.ErrExternalNotFound; transport failures and timeouts are
// models.ErrExternalUnavailable.
func (c *ProfileClient) FetchProfile(ctx context.Context, username string) (*models.GithubProfile, error) {
	endpoint := fmt.Sprintf("%s/users/%s", c.baseURL, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "user-api")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch profile %q: %w", models.ErrExternalUnavailable, username, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, fmt.Errorf("%w: profile %q answered %d", models.ErrExternalNotFound, username, resp.StatusCode)
	}

	var profile models.GithubProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, fmt.Errorf("%w: read profile %q: %w", models.ErrExternalUnavailable, username, err)
		}
		return nil, fmt.Errorf("%w: decode profile %q: %w", models.ErrExternalUnavailable, username, err)
	}

	return &profile, nil
}

// Merge combines a local user with a fetched profile. The password never
// leaves the local record.
func Merge(user *models.User, profile *models.GithubProfile) models.MergedProfile {
	return models.MergedProfile{
		ID:       user.ID,
		Username: user.Name,
		Email:    user.Email,
		Github: models.GithubFields{
			Name:      profile.Name,
			Repo:      profile.PublicRepos,
			Followers: profile.Followers,
			Following: profile.Following,
		},
	}
}
