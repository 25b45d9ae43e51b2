package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-portal/internal/config"
	"github.com/spec-kit/helpdesk-portal/internal/domain"
	"github.com/spec-kit/helpdesk-portal/internal/pager"
	"github.com/spec-kit/helpdesk-portal/internal/service"
	apperrors "github.com/spec-kit/helpdesk-portal/pkg/util/errorutil"
)

// UsersHandler serves the staff account management views plus the
// self-service profile settings available to every logged-in user.
type UsersHandler struct {
	users    *service.UserService
	pageSize int
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(users *service.UserService, cfg config.FeedConfig) *UsersHandler {
	return &UsersHandler{users: users, pageSize: cfg.PageSize}
}

// List handles GET /dashboard/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}

	users, state := sess.UsersFeed().Get()

	term := strings.ToLower(c.Query("q"))
	filtered := pager.Filter(users, func(u domain.User) bool {
		if term == "" {
			return true
		}
		return strings.Contains(strings.ToLower(u.Nome), term) ||
			strings.Contains(strings.ToLower(u.Email), term)
	})
	visible, page := pager.Slice(filtered, c.QueryInt("page", 1), h.pageSize)

	return c.JSON(fiber.Map{
		"users":       visible,
		"page":        page,
		"total_pages": pager.TotalPages(len(filtered), h.pageSize),
		"total":       len(filtered),
		"state":       renderState(state.HasData, state.Loading, state.Err, ""),
	})
}

type userRequest struct {
	Nome            string `json:"nome" form:"nome"`
	Email           string `json:"email" form:"email"`
	Equipe          string `json:"equipe" form:"equipe"`
	Senha           string `json:"senha" form:"senha"`
	ConfirmarSenha  string `json:"confirmar_senha" form:"confirmar_senha"`
	PasswordChanged bool   `json:"senha_alterada" form:"senha_alterada"`
}

func (r userRequest) form() service.UserForm {
	return service.UserForm{
		Nome:            r.Nome,
		Email:           r.Email,
		Equipe:          r.Equipe,
		Senha:           r.Senha,
		ConfirmarSenha:  r.ConfirmarSenha,
		PasswordChanged: r.PasswordChanged,
	}
}

// Create handles POST /dashboard/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}
	var req userRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.users.Create(c.UserContext(), sess, req.form())
	if err != nil {
		return err
	}
	sess.InvalidateUsers()
	return c.Status(http.StatusCreated).JSON(fiber.Map{"user": user})
}

// Get handles GET /dashboard/users/:id, resolving from the cached list.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}
	user, err := h.users.FindByID(c.UserContext(), sess, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": user})
}

// Update handles PUT /dashboard/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}
	var req userRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.users.Update(c.UserContext(), sess, c.Params("id"), req.form())
	if err != nil {
		return err
	}
	sess.InvalidateUsers()
	return c.JSON(fiber.Map{"user": user})
}

type settingsRequest struct {
	Nome           string `json:"nome" form:"nome"`
	Email          string `json:"email" form:"email"`
	Senha          string `json:"senha" form:"senha"`
	ConfirmarSenha string `json:"confirmar_senha" form:"confirmar_senha"`
}

// Settings handles GET on the settings routes: the profile form prefill.
func (h *UsersHandler) Settings(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"user": sess.User})
}

// UpdateSettings handles PUT /portal/settings and /dashboard/settings. Any
// logged-in user edits their own name, email and password; the team field
// stays whatever it already is.
func (h *UsersHandler) UpdateSettings(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}
	var req settingsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.users.UpdateSelf(c.UserContext(), sess, service.SettingsForm{
		Nome:           req.Nome,
		Email:          req.Email,
		Senha:          req.Senha,
		ConfirmarSenha: req.ConfirmarSenha,
	})
	if err != nil {
		return err
	}
	sess.InvalidateUsers()
	return c.JSON(fiber.Map{"user": user})
}

// Delete handles DELETE /dashboard/users/:id. The session's own account is
// refused before any API call.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}
	if err := h.users.Delete(c.UserContext(), sess, c.Params("id")); err != nil {
		return err
	}
	sess.InvalidateUsers()
	return c.SendStatus(http.StatusNoContent)
}
