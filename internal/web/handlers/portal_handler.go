package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-portal/internal/config"
	"github.com/spec-kit/helpdesk-portal/internal/domain"
	"github.com/spec-kit/helpdesk-portal/internal/pager"
	"github.com/spec-kit/helpdesk-portal/internal/service"
	apperrors "github.com/spec-kit/helpdesk-portal/pkg/util/errorutil"
)

// PortalHandler serves the requester side: own tickets, the new-ticket form,
// requester replies, cancellation and the evaluation page.
type PortalHandler struct {
	tickets  *service.TicketService
	feedback *service.FeedbackService
	pageSize int
}

// NewPortalHandler constructs the handler.
func NewPortalHandler(tickets *service.TicketService, feedback *service.FeedbackService, cfg config.FeedConfig) *PortalHandler {
	return &PortalHandler{tickets: tickets, feedback: feedback, pageSize: cfg.PageSize}
}

// List handles GET /portal/tickets: the requester's own tickets, searched and
// paged locally over the cached collection.
func (h *PortalHandler) List(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}

	tickets, state := sess.MyTicketsFeed().Get()

	term := c.Query("q")
	filtered := pager.Filter(tickets, func(t domain.Ticket) bool {
		return t.MatchesSearch(term)
	})
	visible, page := pager.Slice(filtered, c.QueryInt("page", 1), h.pageSize)

	return c.JSON(fiber.Map{
		"tickets":     visible,
		"page":        page,
		"total_pages": pager.TotalPages(len(filtered), h.pageSize),
		"total":       len(filtered),
		"state":       renderState(state.HasData, state.Loading, state.Err, ""),
	})
}

type createTicketRequest struct {
	Telefone   string `json:"telefone_setor" form:"telefone_setor"`
	Setor      string `json:"setor" form:"setor"`
	Prioridade string `json:"prioridade" form:"prioridade"`
	Descricao  string `json:"descricao_problema" form:"descricao_problema"`
}

// Create handles POST /portal/tickets.
func (h *PortalHandler) Create(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}
	var req createTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.Create(c.UserContext(), sess, service.TicketCreateForm{
		Telefone:   req.Telefone,
		Setor:      req.Setor,
		Prioridade: domain.TicketPriority(req.Prioridade),
		Descricao:  req.Descricao,
	})
	if err != nil {
		return err
	}
	sess.InvalidateTickets()
	return c.Status(http.StatusCreated).JSON(fiber.Map{"ticket": ticket})
}

// Detail handles GET /portal/tickets/:id. A requester only ever sees tickets
// opened under their own contact email.
func (h *PortalHandler) Detail(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}
	ticket, actions, err := h.tickets.Get(c.UserContext(), sess, c.Params("id"))
	if err != nil {
		return err
	}
	if !sess.User.IsStaff() && !ticket.OwnedBy(sess.User) {
		return apperrors.NewNotFound("chamado")
	}
	return c.JSON(fiber.Map{"ticket": ticket, "actions": actions})
}

type portalRespondRequest struct {
	Mensagem string `json:"mensagem" form:"mensagem"`
}

// Respond handles POST /portal/tickets/:id/respond. Requesters never pick a
// status; the API moves the ticket back to Pendente on its own.
func (h *PortalHandler) Respond(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}
	var req portalRespondRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, actions, err := h.tickets.Get(c.UserContext(), sess, c.Params("id"))
	if err != nil {
		return err
	}
	if !actions.Respond {
		return apperrors.NewForbidden("aguarde uma resposta da equipe antes de responder")
	}

	if err := h.tickets.Respond(c.UserContext(), sess, ticket.RequestID(), req.Mensagem, ""); err != nil {
		return err
	}
	sess.InvalidateTickets()
	return c.SendStatus(http.StatusNoContent)
}

// Cancel handles POST /portal/tickets/:id/cancel.
func (h *PortalHandler) Cancel(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}

	ticket, actions, err := h.tickets.Get(c.UserContext(), sess, c.Params("id"))
	if err != nil {
		return err
	}
	if !actions.Cancel {
		return apperrors.NewForbidden("este chamado não pode mais ser cancelado")
	}

	if err := h.tickets.Cancel(c.UserContext(), sess, ticket.RequestID()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"status": string(domain.StatusCancelled)})
}

// Evaluations handles GET /portal/avaliacao: completed tickets awaiting (or
// already carrying) a satisfaction rating.
func (h *PortalHandler) Evaluations(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}
	tickets, state := sess.EvaluationFeed().Get()
	return c.JSON(fiber.Map{
		"tickets": tickets,
		"state":   renderState(state.HasData, state.Loading, state.Err, ""),
	})
}

type evaluateRequest struct {
	ChamadoID  string `json:"chamado_id" form:"chamado_id"`
	Nota       int    `json:"nota" form:"nota"`
	Comentario string `json:"comentario" form:"comentario"`
}

// Evaluate handles POST /portal/avaliacao. A second submission for the same
// ticket is refused; the cached list re-syncs so the form shows as locked.
func (h *PortalHandler) Evaluate(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}
	var req evaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ChamadoID == "" {
		return apperrors.NewValidationError("chamado_id é obrigatório", nil)
	}
	if err := h.feedback.Evaluate(c.UserContext(), sess, req.ChamadoID, req.Nota, req.Comentario); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
