package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/spec-kit/helpdesk-portal/internal/domain"
)

// TicketListOptions filters the ticket listing. Zero values mean "no
// filter": the list views deliberately fetch the complete collection and
// page client-side.
type TicketListOptions struct {
	Status domain.TicketStatus
	Limit  int
	Offset int
}

// TicketCreateInput is the creation payload for a new support request.
type TicketCreateInput struct {
	NomeSolicitante   string                `json:"nome_solicitante"`
	EmailContato      string                `json:"email_contato"`
	TelefoneSetor     string                `json:"telefone_setor"`
	Setor             string                `json:"setor"`
	Prioridade        domain.TicketPriority `json:"prioridade"`
	DescricaoProblema string                `json:"descricao_problema"`
}

// Tickets fetches the ticket collection visible to the token's owner. The
// API scopes results itself: requesters only ever see their own tickets.
func (c *Client) Tickets(ctx context.Context, token string, opts TicketListOptions) ([]domain.Ticket, int, error) {
	query := url.Values{}
	if opts.Status != "" {
		query.Set("status", string(opts.Status))
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
		query.Set("offset", strconv.Itoa(opts.Offset))
	}
	path := "/api/tickets"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var envelope struct {
		Tickets []domain.Ticket `json:"tickets"`
		Total   int             `json:"total"`
	}
	if err := c.do(ctx, "list_tickets", http.MethodGet, path, token, nil, &envelope); err != nil {
		return nil, 0, err
	}
	return envelope.Tickets, envelope.Total, nil
}

// Ticket fetches one ticket by id.
func (c *Client) Ticket(ctx context.Context, token, id string) (*domain.Ticket, error) {
	var envelope struct {
		Ticket *domain.Ticket `json:"ticket"`
	}
	path := "/api/tickets/" + ticketPath(id)
	if err := c.do(ctx, "get_ticket", http.MethodGet, path, token, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Ticket, nil
}

// CreateTicket submits a new support request.
func (c *Client) CreateTicket(ctx context.Context, token string, input TicketCreateInput) (*domain.Ticket, error) {
	var envelope struct {
		Ticket *domain.Ticket `json:"ticket"`
	}
	if err := c.do(ctx, "create_ticket", http.MethodPost, "/api/tickets", token, input, &envelope); err != nil {
		return nil, err
	}
	return envelope.Ticket, nil
}

// UpdateTicketStatus requests a lifecycle transition. The API enforces the
// transition rules and ownership; a rejection comes back as a ClientError.
func (c *Client) UpdateTicketStatus(ctx context.Context, token, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	var envelope struct {
		Ticket *domain.Ticket `json:"ticket"`
	}
	path := fmt.Sprintf("/api/tickets/%s/status", ticketPath(id))
	payload := map[string]string{"status": string(status)}
	if err := c.do(ctx, "update_ticket_status", http.MethodPut, path, token, payload, &envelope); err != nil {
		return nil, err
	}
	return envelope.Ticket, nil
}

// TransferTicket reassigns the ticket to another staff member by name.
func (c *Client) TransferTicket(ctx context.Context, token, id, assignee string) (*domain.Ticket, error) {
	var envelope struct {
		Ticket *domain.Ticket `json:"ticket"`
	}
	path := fmt.Sprintf("/api/tickets/%s/transfer", ticketPath(id))
	payload := map[string]string{"atribuido_a": assignee}
	if err := c.do(ctx, "transfer_ticket", http.MethodPut, path, token, payload, &envelope); err != nil {
		return nil, err
	}
	return envelope.Ticket, nil
}

// AddResponse appends a reply to the ticket thread. Status is optional: the
// staff reply form lets the author pick the resulting state.
func (c *Client) AddResponse(ctx context.Context, token, id, message string, status domain.TicketStatus) error {
	payload := map[string]string{"mensagem": message}
	if status != "" {
		payload["status"] = string(status)
	}
	path := fmt.Sprintf("/api/tickets/%s/responses", ticketPath(id))
	return c.do(ctx, "add_response", http.MethodPost, path, token, payload, nil)
}

// TicketMetrics fetches the dashboard counters.
func (c *Client) TicketMetrics(ctx context.Context, token string) (*domain.TicketMetrics, error) {
	var metrics domain.TicketMetrics
	if err := c.do(ctx, "ticket_metrics", http.MethodGet, "/api/tickets/metrics", token, nil, &metrics); err != nil {
		return nil, err
	}
	return &metrics, nil
}

// TicketsToEvaluate lists the requester's completed tickets with their
// evaluation state.
func (c *Client) TicketsToEvaluate(ctx context.Context, token string) ([]domain.EvaluationTicket, error) {
	var envelope struct {
		Tickets []domain.EvaluationTicket `json:"tickets"`
	}
	if err := c.do(ctx, "tickets_to_evaluate", http.MethodGet, "/api/tickets/to-evaluate", token, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Tickets, nil
}

// Evaluate submits a satisfaction rating for a completed ticket. The API
// rejects a second submission with 403.
func (c *Client) Evaluate(ctx context.Context, token, ticketID string, nota int, comentario string) error {
	payload := map[string]any{
		"chamado_id": ticketPath(ticketID),
		"nota":       nota,
	}
	if comentario != "" {
		payload["comentario"] = comentario
	} else {
		payload["comentario"] = nil
	}
	return c.do(ctx, "evaluate", http.MethodPost, "/api/tickets/evaluate", token, payload, nil)
}

// ticketPath strips the display-only '#' prefix some payloads carry.
func ticketPath(id string) string {
	return strings.TrimPrefix(id, "#")
}
