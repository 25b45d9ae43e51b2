package web

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-portal/internal/config"
	"github.com/spec-kit/helpdesk-portal/internal/session"
	"github.com/spec-kit/helpdesk-portal/internal/web/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Auth       *handlers.AuthHandler
	Tickets    *handlers.TicketsHandler
	Portal     *handlers.PortalHandler
	Users      *handlers.UsersHandler
	Feedback   *handlers.FeedbackHandler
	Uploads    *handlers.UploadsHandler
	Manager    *session.Manager
	SessionCfg config.SessionConfig
}

// RegisterRoutes wires HTTP routes. The login endpoints sit outside the
// cookie gate; everything else requires the token cookie and a resolved
// session, and the dashboard additionally requires staff membership.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Auth.LoginView)
	app.Post("/login", cfg.Auth.Login)

	app.Use(CookieGate(cfg.SessionCfg))

	protected := app.Group("", SessionLoader(cfg.Manager, cfg.SessionCfg))
	protected.Post("/logout", cfg.Auth.Logout)
	protected.Get("/me", cfg.Auth.Me)

	dashboard := protected.Group("/dashboard", RequireStaff())
	dashboard.Get("", cfg.Tickets.List)
	dashboard.Get("/metrics", cfg.Tickets.Metrics)
	dashboard.Get("/tickets", cfg.Tickets.List)
	dashboard.Get("/tickets/:id", cfg.Tickets.Detail)
	dashboard.Post("/tickets/:id/assume", cfg.Tickets.Assume)
	dashboard.Post("/tickets/:id/respond", cfg.Tickets.Respond)
	dashboard.Post("/tickets/:id/finish", cfg.Tickets.Finish)
	dashboard.Post("/tickets/:id/transfer", cfg.Tickets.Transfer)
	dashboard.Get("/staff-users", cfg.Tickets.StaffUsers)

	dashboard.Get("/users", cfg.Users.List)
	dashboard.Post("/users", cfg.Users.Create)
	dashboard.Get("/users/:id", cfg.Users.Get)
	dashboard.Put("/users/:id", cfg.Users.Update)
	dashboard.Delete("/users/:id", cfg.Users.Delete)

	dashboard.Get("/settings", cfg.Users.Settings)
	dashboard.Put("/settings", cfg.Users.UpdateSettings)

	dashboard.Get("/feedback", cfg.Feedback.List)
	dashboard.Get("/feedback/metrics", cfg.Feedback.TeamMetrics)
	dashboard.Get("/feedback/staff", cfg.Feedback.StaffNames)
	dashboard.Delete("/tabs/:tabId", cfg.Feedback.CloseTab)

	portal := protected.Group("/portal")
	portal.Get("", cfg.Portal.List)
	portal.Get("/tickets", cfg.Portal.List)
	portal.Post("/tickets", cfg.Portal.Create)
	portal.Get("/tickets/:id", cfg.Portal.Detail)
	portal.Post("/tickets/:id/respond", cfg.Portal.Respond)
	portal.Post("/tickets/:id/cancel", cfg.Portal.Cancel)
	portal.Get("/settings", cfg.Users.Settings)
	portal.Put("/settings", cfg.Users.UpdateSettings)
	portal.Get("/avaliacao", cfg.Portal.Evaluations)
	portal.Post("/avaliacao", cfg.Portal.Evaluate)

	attachments := protected.Group("/tickets/:id/attachments")
	attachments.Post("", cfg.Uploads.Upload)
	attachments.Delete("/:fileId", cfg.Uploads.Delete)
}
