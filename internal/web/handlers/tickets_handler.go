package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-portal/internal/config"
	"github.com/spec-kit/helpdesk-portal/internal/domain"
	"github.com/spec-kit/helpdesk-portal/internal/pager"
	"github.com/spec-kit/helpdesk-portal/internal/service"
	"github.com/spec-kit/helpdesk-portal/internal/session"
	apperrors "github.com/spec-kit/helpdesk-portal/pkg/util/errorutil"
)

// TicketsHandler serves the staff dashboard: ticket lists, detail views and
// the staff-side ticket actions.
type TicketsHandler struct {
	tickets  *service.TicketService
	pageSize int
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(tickets *service.TicketService, cfg config.FeedConfig) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, pageSize: cfg.PageSize}
}

func mustSession(c *fiber.Ctx) (*session.Session, error) {
	sess, ok := session.FromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("no session")
	}
	return sess, nil
}

// feedState is the render state a view gets alongside its data.
type feedState struct {
	Loading     bool   `json:"loading"`
	Stale       bool   `json:"stale"`
	Error       string `json:"error,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`
}

func renderState(hasData, loading bool, err error, lastUpdated string) feedState {
	state := feedState{Loading: loading, Stale: hasData && err != nil, LastUpdated: lastUpdated}
	if err != nil && !hasData {
		state.Error = apperrors.ToClientError(err).Message
	}
	return state
}

// List handles GET /dashboard/tickets. The collection is already cached in
// full; status filtering picks a feed, search and pagination slice it locally.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}

	status := domain.TicketStatus(c.Query("status"))
	if status != "" && status != "all" && !status.Valid() {
		return apperrors.NewValidationError("status de filtro inválido", map[string]any{"status": string(status)})
	}
	if status == "all" {
		status = ""
	}

	tickets, state := sess.TicketFeed(status).Get()

	term := c.Query("q")
	filtered := pager.Filter(tickets, func(t domain.Ticket) bool {
		return t.MatchesSearch(term)
	})
	visible, page := pager.Slice(filtered, c.QueryInt("page", 1), h.pageSize)

	lastUpdated := ""
	if !state.LastUpdated.IsZero() {
		lastUpdated = state.LastUpdated.UTC().Format(http.TimeFormat)
	}
	return c.JSON(fiber.Map{
		"tickets":     visible,
		"filters":     domain.AllStatuses,
		"page":        page,
		"total_pages": pager.TotalPages(len(filtered), h.pageSize),
		"total":       len(filtered),
		"state":       renderState(state.HasData, state.Loading, state.Err, lastUpdated),
	})
}

// Metrics handles GET /dashboard/metrics: the status counters shown above the
// ticket table.
func (h *TicketsHandler) Metrics(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}
	metrics, state := sess.TicketMetricsFeed().Get()
	return c.JSON(fiber.Map{
		"metrics": metrics,
		"state":   renderState(state.HasData, state.Loading, state.Err, ""),
	})
}

// Detail handles GET /dashboard/tickets/:id. The detail view always fetches
// fresh: the thread and attachments can be newer than any cached list row.
func (h *TicketsHandler) Detail(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}
	ticket, actions, err := h.tickets.Get(c.UserContext(), sess, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ticket": ticket, "actions": actions})
}

// Assume handles POST /dashboard/tickets/:id/assume.
func (h *TicketsHandler) Assume(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}
	if err := h.tickets.Assume(c.UserContext(), sess, c.Params("id")); err != nil {
		return err
	}
	sess.InvalidateTickets()
	return c.JSON(fiber.Map{"status": string(domain.StatusPending)})
}

type respondRequest struct {
	Mensagem string `json:"mensagem" form:"mensagem"`
	Status   string `json:"status" form:"status"`
}

// Respond handles POST /dashboard/tickets/:id/respond. Staff pick whether the
// reply leaves the ticket Pendente or hands it back as Aguardando resposta.
func (h *TicketsHandler) Respond(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}
	var req respondRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.tickets.Respond(c.UserContext(), sess, c.Params("id"), req.Mensagem, domain.TicketStatus(req.Status)); err != nil {
		return err
	}
	sess.InvalidateTickets()
	return c.SendStatus(http.StatusNoContent)
}

// Finish handles POST /dashboard/tickets/:id/finish.
func (h *TicketsHandler) Finish(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}
	if err := h.tickets.Finish(c.UserContext(), sess, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": string(domain.StatusDone)})
}

type transferRequest struct {
	AtribuidoA string `json:"atribuido_a" form:"atribuido_a"`
}

// Transfer handles POST /dashboard/tickets/:id/transfer.
func (h *TicketsHandler) Transfer(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.tickets.Transfer(c.UserContext(), sess, c.Params("id"), req.AtribuidoA); err != nil {
		return err
	}
	sess.InvalidateTickets()
	return c.SendStatus(http.StatusNoContent)
}

// StaffUsers handles GET /dashboard/staff-users, feeding the transfer picker.
func (h *TicketsHandler) StaffUsers(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}
	users, err := h.tickets.StaffUsers(c.UserContext(), sess)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"usuarios": users})
}
