package service

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-portal/internal/domain"
	"github.com/spec-kit/helpdesk-portal/internal/events"
	"github.com/spec-kit/helpdesk-portal/internal/remote"
	"github.com/spec-kit/helpdesk-portal/internal/session"
	apperrors "github.com/spec-kit/helpdesk-portal/pkg/util/errorutil"
)

// FeedbackService handles evaluation submission and the staff feedback
// report helpers.
type FeedbackService struct {
	remote     *remote.Client
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewFeedbackService constructs the service.
func NewFeedbackService(client *remote.Client, dispatcher events.Dispatcher, logger *zap.Logger) *FeedbackService {
	return &FeedbackService{remote: client, dispatcher: dispatcher, logger: logger}
}

// ErrAlreadyEvaluated is surfaced when the API refuses a second submission.
var ErrAlreadyEvaluated = apperrors.NewForbidden("esta avaliação já foi enviada e não pode ser alterada")

// Evaluate submits a rating for a completed ticket. A 403 from the API means
// the ticket was already rated: the local copy is re-synced and the caller
// gets a specific error. On success the cached list is patched so the form
// locks immediately.
func (s *FeedbackService) Evaluate(ctx context.Context, sess *session.Session, ticketID string, nota int, comentario string) error {
	if !domain.ValidRating(nota) {
		return apperrors.NewValidationError("selecione uma nota de 1 a 5", nil)
	}

	if err := s.remote.Evaluate(ctx, sess.Token, ticketID, nota, comentario); err != nil {
		if apperrors.IsStatus(err, http.StatusForbidden) {
			sess.InvalidateEvaluations()
			return ErrAlreadyEvaluated
		}
		return err
	}

	sess.PatchEvaluation(ticketID, nota, comentario)

	err := s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventEvaluationSubmitted,
		SessionID: sess.ID,
		TicketID:  ticketID,
		Actor:     sess.User.Nome,
		Timestamp: time.Now(),
		Payload:   events.EvaluationSubmittedPayload{Nota: nota},
	})
	if err != nil {
		s.logger.Warn("event publish failed", zap.String("type", string(events.EventEvaluationSubmitted)), zap.Error(err))
	}
	return nil
}

// StaffNames lists staff members for the feedback filter dropdown.
func (s *FeedbackService) StaffNames(ctx context.Context, sess *session.Session) ([]string, error) {
	return s.remote.StaffNames(ctx, sess.Token)
}

// MatchesResponsible reports whether a feedback row belongs to the given
// staff member; "todos" (or empty) matches everything. The feedback view's
// pager filters with it.
func MatchesResponsible(item domain.FeedbackItem, responsible string) bool {
	return responsible == "" || responsible == "todos" || item.ResponsavelNome == responsible
}
