package web

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-portal/internal/config"
	"github.com/spec-kit/helpdesk-portal/internal/observability"
	"github.com/spec-kit/helpdesk-portal/internal/session"
	apperrors "github.com/spec-kit/helpdesk-portal/pkg/util/errorutil"
)

// LoginRoute is the only path reachable without a token cookie.
const LoginRoute = "/"

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				clientErr := apperrors.ToClientError(err)
				metrics.RecordError(c.Path(), c.Method(), clientErr.Code)
				response := fiber.Map{"error": fiber.Map{
					"code":    clientErr.Code,
					"message": clientErr.Message,
				}}
				if len(clientErr.Details) > 0 {
					response["error"].(fiber.Map)["details"] = clientErr.Details
				}
				if clientErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(clientErr))
				}
				c.Status(clientErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}

// CookieGate forbids every path except the login endpoints when no token
// cookie is present, redirecting to login. It never validates the token
// itself; that stays with the session loader and, ultimately, the API.
func CookieGate(cfg config.SessionConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == LoginRoute || c.Path() == "/login" {
			return c.Next()
		}
		if session.ReadToken(c, cfg.CookieName) == "" {
			return c.Redirect(LoginRoute, fiber.StatusFound)
		}
		return c.Next()
	}
}

// SessionLoader resolves the cookie token into a session and stores it in
// locals. An invalid or expired token clears the cookie and redirects to
// login exactly once; upstream outages surface as errors instead of logging
// the user out.
func SessionLoader(manager *session.Manager, cfg config.SessionConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := session.ReadToken(c, cfg.CookieName)
		sess, err := manager.Resolve(c.UserContext(), token)
		if err != nil {
			if apperrors.IsUnauthorized(err) {
				session.ClearToken(c, cfg.CookieName)
				return c.Redirect(LoginRoute, fiber.StatusFound)
			}
			return err
		}
		session.StoreInContext(c, sess)
		return c.Next()
	}
}

// RequireStaff sends non-staff users to the requester portal.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := session.FromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("no session")
		}
		if !sess.User.IsStaff() {
			return c.Redirect("/portal", fiber.StatusFound)
		}
		return c.Next()
	}
}
