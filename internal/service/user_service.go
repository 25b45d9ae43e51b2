package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-portal/internal/domain"
	"github.com/spec-kit/helpdesk-portal/internal/events"
	"github.com/spec-kit/helpdesk-portal/internal/remote"
	"github.com/spec-kit/helpdesk-portal/internal/session"
	apperrors "github.com/spec-kit/helpdesk-portal/pkg/util/errorutil"
)

// UserService handles the staff-only account management operations.
type UserService struct {
	remote     *remote.Client
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(client *remote.Client, dispatcher events.Dispatcher, logger *zap.Logger) *UserService {
	return &UserService{remote: client, dispatcher: dispatcher, logger: logger}
}

// UserForm is the create/update form including the write-only password pair.
type UserForm struct {
	Nome            string
	Email           string
	Equipe          string
	Senha           string
	ConfirmarSenha  string
	PasswordChanged bool
}

func (f UserForm) validate(creating bool) error {
	if strings.TrimSpace(f.Nome) == "" || strings.TrimSpace(f.Email) == "" || strings.TrimSpace(f.Equipe) == "" {
		return apperrors.NewValidationError("nome, email e equipe são obrigatórios", nil)
	}
	if creating && f.Senha == "" {
		return apperrors.NewValidationError("senha é obrigatória", nil)
	}
	if (creating || f.PasswordChanged) && f.Senha != f.ConfirmarSenha {
		return apperrors.NewValidationError("as senhas não coincidem", nil)
	}
	return nil
}

// Create registers a new account.
func (s *UserService) Create(ctx context.Context, sess *session.Session, form UserForm) (*domain.User, error) {
	if err := form.validate(true); err != nil {
		return nil, err
	}
	user, err := s.remote.CreateUser(ctx, sess.Token, remote.UserInput{
		Nome:   form.Nome,
		Email:  form.Email,
		Equipe: form.Equipe,
		Senha:  form.Senha,
	})
	if err != nil {
		return nil, err
	}
	s.publishUsersChanged(ctx, sess)
	return user, nil
}

// Update mutates an account. The password is only sent when changed.
func (s *UserService) Update(ctx context.Context, sess *session.Session, id string, form UserForm) (*domain.User, error) {
	if err := form.validate(false); err != nil {
		return nil, err
	}
	input := remote.UserInput{
		Nome:   form.Nome,
		Email:  form.Email,
		Equipe: form.Equipe,
	}
	if form.PasswordChanged {
		input.Senha = form.Senha
	}
	user, err := s.remote.UpdateUser(ctx, sess.Token, id, input)
	if err != nil {
		return nil, err
	}
	s.publishUsersChanged(ctx, sess)
	return user, nil
}

// SettingsForm is the self-service profile form. The team is read-only
// there; a non-empty password means the user wants it changed.
type SettingsForm struct {
	Nome           string
	Email          string
	Senha          string
	ConfirmarSenha string
}

// UpdateSelf lets any logged-in user edit their own name, email and
// password. On success the session's user copy is replaced so later requests
// render the new data without waiting for a re-bootstrap.
func (s *UserService) UpdateSelf(ctx context.Context, sess *session.Session, form SettingsForm) (*domain.User, error) {
	if strings.TrimSpace(form.Nome) == "" || strings.TrimSpace(form.Email) == "" {
		return nil, apperrors.NewValidationError("nome e email são obrigatórios", nil)
	}
	if form.Senha != "" && form.Senha != form.ConfirmarSenha {
		return nil, apperrors.NewValidationError("as senhas não coincidem", nil)
	}
	user, err := s.remote.UpdateUser(ctx, sess.Token, sess.User.ID, remote.UserInput{
		Nome:   form.Nome,
		Email:  form.Email,
		Equipe: sess.User.Equipe,
		Senha:  form.Senha,
	})
	if err != nil {
		return nil, err
	}
	sess.User = user
	s.publishUsersChanged(ctx, sess)
	return user, nil
}

// Delete removes an account. Deleting yourself is refused client-side; the
// API would refuse it too, but the affordance should never be offered.
func (s *UserService) Delete(ctx context.Context, sess *session.Session, id string) error {
	if id == sess.User.ID {
		return apperrors.NewForbidden("você não pode excluir a própria conta")
	}
	if err := s.remote.DeleteUser(ctx, sess.Token, id); err != nil {
		return err
	}
	s.publishUsersChanged(ctx, sess)
	return nil
}

// FindByID resolves a user from the cached full list, the same way the
// detail view does: no per-user endpoint exists.
func (s *UserService) FindByID(ctx context.Context, sess *session.Session, id string) (*domain.User, error) {
	users, state := sess.UsersFeed().Get()
	if !state.HasData {
		fetched, err := s.remote.Users(ctx, sess.Token)
		if err != nil {
			return nil, err
		}
		users = fetched
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, apperrors.NewNotFound("user")
}

func (s *UserService) publishUsersChanged(ctx context.Context, sess *session.Session) {
	err := s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventUsersChanged,
		SessionID: sess.ID,
		Actor:     sess.User.Nome,
		Timestamp: time.Now(),
	})
	if err != nil {
		s.logger.Warn("event publish failed", zap.String("type", string(events.EventUsersChanged)), zap.Error(err))
	}
}
