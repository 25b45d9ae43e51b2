package remote

import (
	"context"
	"net/http"

	"github.com/spec-kit/helpdesk-portal/internal/domain"
)

// LoginResult is the success payload of the login endpoint.
type LoginResult struct {
	User  *domain.User `json:"user"`
	Token string       `json:"token"`
}

// Login exchanges credentials for a bearer token and the user record.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	payload := map[string]string{"email": email, "password": password}
	var result LoginResult
	if err := c.do(ctx, "login", http.MethodPost, "/api/auth/login", "", payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CurrentUser resolves the token's owner via the who-am-I endpoint.
func (c *Client) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	var envelope struct {
		User *domain.User `json:"user"`
	}
	if err := c.do(ctx, "current_user", http.MethodGet, "/api/auth/me", token, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.User, nil
}
