package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusUnassigned.CanTransition(StatusPending))
	assert.True(t, StatusUnassigned.CanTransition(StatusCancelled))
	assert.False(t, StatusUnassigned.CanTransition(StatusDone))

	assert.True(t, StatusPending.CanTransition(StatusAwaitingReply))
	assert.True(t, StatusPending.CanTransition(StatusDone))
	assert.True(t, StatusAwaitingReply.CanTransition(StatusPending))

	for _, terminal := range []TicketStatus{StatusDone, StatusCancelled} {
		for _, next := range AllStatuses {
			assert.False(t, terminal.CanTransition(next), "%s -> %s", terminal, next)
		}
	}
}

func TestStatusValidAndTerminal(t *testing.T) {
	for _, status := range AllStatuses {
		assert.True(t, status.Valid(), string(status))
	}
	assert.False(t, TicketStatus("Em análise").Valid())

	assert.True(t, StatusDone.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
}

func TestRequestIDStripsDisplayPrefix(t *testing.T) {
	assert.Equal(t, "42", (&Ticket{ID: "#42"}).RequestID())
	assert.Equal(t, "42", (&Ticket{ID: "42"}).RequestID())
}

func TestHasStaffResponse(t *testing.T) {
	ticket := &Ticket{
		HistoricoRespostas: []Response{
			{Autor: "Solicitante", Mensagem: "Alguma novidade?"},
		},
	}
	assert.False(t, ticket.HasStaffResponse())

	ticket.HistoricoRespostas = append(ticket.HistoricoRespostas, Response{
		Autor: "Ana", AutorEquipe: StaffTeam, Mensagem: "Estamos verificando.",
	})
	assert.True(t, ticket.HasStaffResponse())
}

func TestMatchesSearch(t *testing.T) {
	ticket := &Ticket{
		NomeSolicitante:   "Maria Souza",
		Setor:             "Financeiro",
		DescricaoProblema: "Impressora não liga",
	}

	assert.True(t, ticket.MatchesSearch(""))
	assert.True(t, ticket.MatchesSearch("maria"))
	assert.True(t, ticket.MatchesSearch("FINANCEIRO"))
	assert.True(t, ticket.MatchesSearch("impressora"))
	assert.False(t, ticket.MatchesSearch("rede"))
}

func TestEvaluated(t *testing.T) {
	ticket := &EvaluationTicket{ID: "1", Status: StatusDone}
	assert.False(t, ticket.Evaluated())

	nota := 4
	ticket.Avaliacao = &Evaluation{Nota: &nota}
	assert.False(t, ticket.Evaluated())

	ticket.Avaliacao.JaAvaliado = true
	assert.True(t, ticket.Evaluated())
}

func TestValidRating(t *testing.T) {
	assert.False(t, ValidRating(0))
	assert.True(t, ValidRating(1))
	assert.True(t, ValidRating(5))
	assert.False(t, ValidRating(6))
}
