package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-portal/internal/config"
	"github.com/spec-kit/helpdesk-portal/internal/session"
	apperrors "github.com/spec-kit/helpdesk-portal/pkg/util/errorutil"
)

// AuthHandler serves the login route and the session lifecycle endpoints.
type AuthHandler struct {
	manager *session.Manager
	cfg     config.SessionConfig
}

// NewAuthHandler constructs handler.
func NewAuthHandler(manager *session.Manager, cfg config.SessionConfig) *AuthHandler {
	return &AuthHandler{manager: manager, cfg: cfg}
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginView handles GET /. A visitor with a live session skips the form and
// lands on their home route.
func (h *AuthHandler) LoginView(c *fiber.Ctx) error {
	token := session.ReadToken(c, h.cfg.CookieName)
	if token != "" {
		if sess, err := h.manager.Resolve(c.UserContext(), token); err == nil {
			return c.Redirect(sess.LandingRoute(), fiber.StatusFound)
		}
		session.ClearToken(c, h.cfg.CookieName)
	}
	return c.JSON(fiber.Map{"view": "login"})
}

// Login handles POST /login. On success the token lands in a 1-day cookie
// and the response names the landing route by team. Failures pass the API's
// message through for the form to display.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email e senha são obrigatórios", nil)
	}

	sess, err := h.manager.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	session.WriteToken(c, h.cfg.CookieName, sess.Token, h.cfg.CookieTTL())
	return c.JSON(fiber.Map{
		"user":     sess.User,
		"redirect": sess.LandingRoute(),
	})
}

// Logout handles POST /logout: drop the session, clear the cookie, back to
// the login route. No upstream call; tokens are stateless bearers.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := session.ReadToken(c, h.cfg.CookieName)
	if token != "" {
		h.manager.Logout(token)
	}
	session.ClearToken(c, h.cfg.CookieName)
	return c.Redirect("/", fiber.StatusFound)
}

// Me handles GET /me for the shell header: the current session's user.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	sess, ok := session.FromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("no session")
	}
	return c.JSON(fiber.Map{"user": sess.User})
}
