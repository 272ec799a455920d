package api

import (
	"context"

	gocache "github.com/patrickmn/go-cache"

	"taskflow/internal/models"
)

const usersCacheKey = "users"

// ListUsers returns the user directory for assignment and team pickers.
// The directory changes rarely, so responses are memoized for a few minutes;
// the cached value is the ordered slice as the server returned it.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	if cached, found := c.users.Get(usersCacheKey); found {
		return cached.([]models.User), nil
	}

	var users []models.User
	if err := c.get(ctx, "/users", nil, &users); err != nil {
		return nil, err
	}

	c.users.Set(usersCacheKey, users, gocache.DefaultExpiration)
	return users, nil
}

// InvalidateUsers drops the memoized user directory. Called after a
// registration made through this client, which is the one local event that
// changes the directory.
func (c *Client) InvalidateUsers() {
	c.users.Delete(usersCacheKey)
}
