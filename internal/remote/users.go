package remote

import (
	"context"
	"net/http"

	"github.com/spec-kit/helpdesk-portal/internal/domain"
)

// UserInput carries create/update fields for an account. Senha is write-only
// and omitted when unchanged.
type UserInput struct {
	Nome   string `json:"nome"`
	Email  string `json:"email"`
	Equipe string `json:"equipe"`
	Senha  string `json:"senha,omitempty"`
}

// Users lists every account. Staff-only on the API side.
func (c *Client) Users(ctx context.Context, token string) ([]domain.User, error) {
	var envelope struct {
		Users []domain.User `json:"users"`
	}
	if err := c.do(ctx, "list_users", http.MethodGet, "/api/users", token, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Users, nil
}

// CreateUser registers a new account.
func (c *Client) CreateUser(ctx context.Context, token string, input UserInput) (*domain.User, error) {
	var envelope struct {
		User *domain.User `json:"user"`
	}
	if err := c.do(ctx, "create_user", http.MethodPost, "/api/users", token, input, &envelope); err != nil {
		return nil, err
	}
	return envelope.User, nil
}

// UpdateUser mutates an existing account.
func (c *Client) UpdateUser(ctx context.Context, token, id string, input UserInput) (*domain.User, error) {
	var envelope struct {
		User *domain.User `json:"user"`
	}
	if err := c.do(ctx, "update_user", http.MethodPut, "/api/users/"+id, token, input, &envelope); err != nil {
		return nil, err
	}
	return envelope.User, nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, token, id string) error {
	return c.do(ctx, "delete_user", http.MethodDelete, "/api/users/"+id, token, nil, nil)
}

// StaffUsers lists the members of the staff team, used by the transfer
// picker on the ticket detail view.
func (c *Client) StaffUsers(ctx context.Context, token string) ([]domain.User, error) {
	var envelope struct {
		Usuarios []domain.User `json:"usuarios"`
	}
	if err := c.do(ctx, "list_staff_users", http.MethodGet, "/api/users/ti", token, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Usuarios, nil
}
