package events

import (
	"time"

	"github.com/spec-kit/helpdesk-portal/internal/domain"
)

// EventType enumerates supported event identifiers. Events mark API-
// acknowledged mutations so interested views refresh ahead of their next
// poll; they carry no authority of their own.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketTransferred   EventType = "ticket_transferred"
	EventTicketResponded     EventType = "ticket_responded"
	EventEvaluationSubmitted EventType = "evaluation_submitted"
	EventUsersChanged        EventType = "users_changed"
)

// Event represents an acknowledged mutation observed by the portal.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Actor     string      `json:"actor,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TransferredPayload payload.
type TransferredPayload struct {
	NewAssignee string `json:"new_assignee"`
}

// EvaluationSubmittedPayload payload.
type EvaluationSubmittedPayload struct {
	Nota int `json:"nota"`
}
