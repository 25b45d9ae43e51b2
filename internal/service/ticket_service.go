package service

import (
	"context"
	"io"
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

// MinDescriptionLength is the shortest accepted problem description.
const MinDescriptionLength = 10

// TicketService coordinates ticket reads and actions for a session. Every
// mutation is one API round trip; on acknowledgment the service patches the
// affected snapshots and publishes an event so open views refresh early.
type TicketService struct {
	remote     *remote.Client
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(client *remote.Client, dispatcher events.Dispatcher, logger *zap.Logger) *TicketService {
	return &TicketService{remote: client, dispatcher: dispatcher, logger: logger}
}

// TicketCreateForm is the new-ticket form as submitted. Empty fields fall
// back to the session user's own data, mirroring the form's prefill.
type TicketCreateForm struct {
	Telefone   string
	Setor      string
	Prioridade domain.TicketPriority
	Descricao  string
}

// Get fetches one ticket plus the actions currently offered to the viewer.
func (s *TicketService) Get(ctx context.Context, sess *session.Session, id string) (*domain.Ticket, domain.TicketActions, error) {
	ticket, err := s.remote.Ticket(ctx, sess.Token, id)
	if err != nil {
		return nil, domain.TicketActions{}, err
	}
	return ticket, domain.ActionsFor(ticket, sess.User), nil
}

// Create validates and submits a new support request.
func (s *TicketService) Create(ctx context.Context, sess *session.Session, form TicketCreateForm) (*domain.Ticket, error) {
	if strings.TrimSpace(form.Telefone) == "" {
		return nil, apperrors.NewValidationError("telefone é obrigatório", nil)
	}
	description := strings.TrimSpace(form.Descricao)
	if description == "" {
		return nil, apperrors.NewValidationError("descrição é obrigatória", nil)
	}
	if len([]rune(description)) < MinDescriptionLength {
		return nil, apperrors.NewValidationError("a descrição deve ter pelo menos 10 caracteres", nil)
	}

	input := remote.TicketCreateInput{
		NomeSolicitante:   sess.User.Nome,
		EmailContato:      sess.User.Email,
		TelefoneSetor:     form.Telefone,
		Setor:             form.Setor,
		Prioridade:        form.Prioridade,
		DescricaoProblema: description,
	}
	if input.Setor == "" {
		input.Setor = sess.User.Equipe
	}
	if input.Prioridade == "" {
		input.Prioridade = domain.PriorityMedium
	}

	ticket, err := s.remote.CreateTicket(ctx, sess.Token, input)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, sess, events.EventTicketCreated, ticket.ID, nil)
	return ticket, nil
}

// Assume moves an unassigned ticket to Pendente under the caller's name.
func (s *TicketService) Assume(ctx context.Context, sess *session.Session, id string) error {
	if _, err := s.remote.UpdateTicketStatus(ctx, sess.Token, id, domain.StatusPending); err != nil {
		return err
	}
	s.publish(ctx, sess, events.EventTicketStatusChanged, id, events.StatusChangedPayload{
		OldStatus: domain.StatusUnassigned,
		NewStatus: domain.StatusPending,
	})
	return nil
}

// Respond appends a reply. Staff may pick the resulting status; requesters
// leave it empty and the API decides.
func (s *TicketService) Respond(ctx context.Context, sess *session.Session, id, message string, status domain.TicketStatus) error {
	if strings.TrimSpace(message) == "" {
		return apperrors.NewValidationError("digite uma resposta antes de enviar", nil)
	}
	if status != "" && status != domain.StatusPending && status != domain.StatusAwaitingReply {
		return apperrors.NewValidationError("status de resposta inválido", map[string]any{"status": string(status)})
	}

	if err := s.remote.AddResponse(ctx, sess.Token, id, message, status); err != nil {
		return err
	}
	s.publish(ctx, sess, events.EventTicketResponded, id, nil)
	return nil
}

// Finish marks the ticket Concluído and patches every cached dashboard list
// so the change shows before the next poll.
func (s *TicketService) Finish(ctx context.Context, sess *session.Session, id string) error {
	if _, err := s.remote.UpdateTicketStatus(ctx, sess.Token, id, domain.StatusDone); err != nil {
		return err
	}
	sess.PatchTicketStatus(id, domain.StatusDone)
	s.publish(ctx, sess, events.EventTicketStatusChanged, id, events.StatusChangedPayload{
		NewStatus: domain.StatusDone,
	})
	return nil
}

// Cancel is the requester-side terminal action.
func (s *TicketService) Cancel(ctx context.Context, sess *session.Session, id string) error {
	if _, err := s.remote.UpdateTicketStatus(ctx, sess.Token, id, domain.StatusCancelled); err != nil {
		return err
	}
	sess.PatchTicketStatus(id, domain.StatusCancelled)
	s.publish(ctx, sess, events.EventTicketStatusChanged, id, events.StatusChangedPayload{
		NewStatus: domain.StatusCancelled,
	})
	return nil
}

// Transfer reassigns the ticket to another staff member.
func (s *TicketService) Transfer(ctx context.Context, sess *session.Session, id, assignee string) error {
	if strings.TrimSpace(assignee) == "" {
		return apperrors.NewValidationError("selecione o novo responsável", nil)
	}
	if _, err := s.remote.TransferTicket(ctx, sess.Token, id, assignee); err != nil {
		return err
	}
	s.publish(ctx, sess, events.EventTicketTransferred, id, events.TransferredPayload{NewAssignee: assignee})
	return nil
}

// StaffUsers lists transfer candidates.
func (s *TicketService) StaffUsers(ctx context.Context, sess *session.Session) ([]domain.User, error) {
	return s.remote.StaffUsers(ctx, sess.Token)
}

// UploadAttachment validates and forwards one file to the API.
func (s *TicketService) UploadAttachment(ctx context.Context, sess *session.Session, ticketID, fileName, mimeType string, size int64, content io.Reader) (*domain.Attachment, error) {
	if err := remote.ValidateAttachment(mimeType, size); err != nil {
		return nil, err
	}
	return s.remote.UploadAttachment(ctx, sess.Token, ticketID, fileName, content)
}

// DeleteAttachment removes one attachment.
func (s *TicketService) DeleteAttachment(ctx context.Context, sess *session.Session, ticketID, fileID string) error {
	return s.remote.DeleteAttachment(ctx, sess.Token, ticketID, fileID)
}

func (s *TicketService) publish(ctx context.Context, sess *session.Session, eventType events.EventType, ticketID string, payload interface{}) {
	err := s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SessionID: sess.ID,
		TicketID:  ticketID,
		Actor:     sess.User.Nome,
		Timestamp: time.Now(),
		Payload:   payload,
	})
	if err != nil {
		s.logger.Warn("event publish failed", zap.String("type", string(eventType)), zap.Error(err))
	}
}
