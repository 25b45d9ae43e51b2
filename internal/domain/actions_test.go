package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func staffUser(nome string) *User {
	return &User{ID: "s1", Nome: nome, Email: nome + "@ti.example.com", Equipe: StaffTeam}
}

func requesterUser(email string) *User {
	return &User{ID: "r1", Nome: "Solicitante", Email: email, Equipe: "Financeiro"}
}

func TestActionsForTerminalTicketOffersNothing(t *testing.T) {
	for _, status := range []TicketStatus{StatusDone, StatusCancelled} {
		ticket := &Ticket{ID: "1", Status: status, EmailContato: "r@example.com"}

		assert.Equal(t, TicketActions{}, ActionsFor(ticket, staffUser("Ana")), "staff on %s", status)
		assert.Equal(t, TicketActions{}, ActionsFor(ticket, requesterUser("r@example.com")), "requester on %s", status)
	}
}

func TestActionsFollowTransitionTable(t *testing.T) {
	owner := requesterUser("r@example.com")
	assignee := staffUser("Ana")

	for _, status := range AllStatuses {
		ticket := &Ticket{ID: "1", Status: status, EmailContato: owner.Email, AtribuidoA: strPtr("Ana")}

		// Cancel and finish are only offered when the lifecycle table allows
		// the move; everything terminal offers neither.
		assert.Equal(t, status.CanTransition(StatusCancelled), ActionsFor(ticket, owner).Cancel, "cancel on %s", status)
		assert.Equal(t, status.CanTransition(StatusDone), ActionsFor(ticket, assignee).Finish, "finish on %s", status)
	}
}

func TestActionsForStaffOnUnassignedTicket(t *testing.T) {
	ticket := &Ticket{ID: "1", Status: StatusUnassigned}

	actions := ActionsFor(ticket, staffUser("Ana"))

	// Before anyone assumes it, taking ownership is the only offer.
	assert.Equal(t, TicketActions{Assume: true}, actions)
}

func TestActionsForStaffAssignee(t *testing.T) {
	ticket := &Ticket{
		ID:         "1",
		Status:     StatusPending,
		AtribuidoA: strPtr("Ana"),
	}

	actions := ActionsFor(ticket, staffUser("Ana"))
	assert.False(t, actions.Assume)
	assert.True(t, actions.Respond)
	assert.True(t, actions.Finish)
	assert.True(t, actions.Transfer)
	assert.False(t, actions.Cancel)
}

func TestActionsForStaffNonAssignee(t *testing.T) {
	ticket := &Ticket{
		ID:         "1",
		Status:     StatusAwaitingReply,
		AtribuidoA: strPtr("Ana"),
	}

	actions := ActionsFor(ticket, staffUser("Bruno"))
	assert.True(t, actions.Respond)
	assert.False(t, actions.Finish, "only the assignee may finish")
	assert.False(t, actions.Transfer, "only the assignee may transfer")
}

func TestActionsForRequesterBeforeStaffReply(t *testing.T) {
	ticket := &Ticket{
		ID:           "1",
		Status:       StatusPending,
		EmailContato: "r@example.com",
	}

	actions := ActionsFor(ticket, requesterUser("r@example.com"))
	assert.False(t, actions.Respond, "a requester may only reply after the staff did")
	assert.True(t, actions.Cancel)
	assert.False(t, actions.Assume)
	assert.False(t, actions.Finish)
	assert.False(t, actions.Transfer)
}

func TestActionsForRequesterAfterStaffReply(t *testing.T) {
	ticket := &Ticket{
		ID:           "1",
		Status:       StatusAwaitingReply,
		EmailContato: "r@example.com",
		HistoricoRespostas: []Response{
			{Autor: "Ana", AutorEquipe: StaffTeam, Mensagem: "Verificando."},
		},
	}

	actions := ActionsFor(ticket, requesterUser("r@example.com"))
	assert.True(t, actions.Respond)
	assert.True(t, actions.Cancel)
}

func TestActionsForRequesterOnSomeoneElsesTicket(t *testing.T) {
	ticket := &Ticket{
		ID:           "1",
		Status:       StatusPending,
		EmailContato: "owner@example.com",
		HistoricoRespostas: []Response{
			{Autor: "Ana", AutorEquipe: StaffTeam, Mensagem: "Verificando."},
		},
	}

	assert.Equal(t, TicketActions{}, ActionsFor(ticket, requesterUser("intruder@example.com")))
}

func TestActionsForNilInputs(t *testing.T) {
	assert.Equal(t, TicketActions{}, ActionsFor(nil, staffUser("Ana")))
	assert.Equal(t, TicketActions{}, ActionsFor(&Ticket{Status: StatusPending}, nil))
}
