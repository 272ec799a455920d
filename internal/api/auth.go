package api

import (
	"context"

	"taskflow/internal/models"
)

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        models.User `json:"user"`
}

// Login exchanges credentials for a token and identity.
func (c *Client) Login(ctx context.Context, email, password string) (models.Session, error) {
	body := map[string]string{"email": email, "password": password}

	var resp tokenResponse
	if err := c.post(ctx, "/auth/login", body, &resp); err != nil {
		return models.Session{}, err
	}
	return models.Session{User: resp.User, Token: resp.AccessToken}, nil
}

// RegisterProfile is the payload for creating a new identity.
type RegisterProfile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register creates a new identity and returns its session.
func (c *Client) Register(ctx context.Context, profile RegisterProfile) (models.Session, error) {
	var resp tokenResponse
	if err := c.post(ctx, "/auth/register", profile, &resp); err != nil {
		return models.Session{}, err
	}
	return models.Session{User: resp.User, Token: resp.AccessToken}, nil
}

// Me fetches the identity behind the ambient credential. Used to validate a
// persisted token on startup.
func (c *Client) Me(ctx context.Context) (models.User, error) {
	var user models.User
	if err := c.get(ctx, "/auth/me", nil, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}
