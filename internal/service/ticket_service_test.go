package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-portal/internal/config"
	"github.com/spec-kit/helpdesk-portal/internal/domain"
	"github.com/spec-kit/helpdesk-portal/internal/events"
	"github.com/spec-kit/helpdesk-portal/internal/observability"
	"github.com/spec-kit/helpdesk-portal/internal/remote"
	"github.com/spec-kit/helpdesk-portal/internal/session"
	apperrors "github.com/spec-kit/helpdesk-portal/pkg/util/errorutil"
)

func staffSession() *session.Session {
	return &session.Session{
		ID:    "sess-1",
		Token: "tok",
		User:  &domain.User{ID: "1", Nome: "Ana", Email: "ana@ti.example.com", Equipe: domain.StaffTeam},
	}
}

func requesterSession() *session.Session {
	return &session.Session{
		ID:    "sess-2",
		Token: "tok",
		User:  &domain.User{ID: "2", Nome: "Maria", Email: "maria@example.com", Equipe: "Financeiro"},
	}
}

func newTicketService(t *testing.T, handler http.Handler) *TicketService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := remote.New(config.APIConfig{BaseURL: server.URL, TimeoutSeconds: 5}, zap.NewNop(), observability.NewMetrics())
	return NewTicketService(client, events.NewInMemoryDispatcher(zap.NewNop()), zap.NewNop())
}

func unreachableTicketService(t *testing.T) *TicketService {
	t.Helper()
	// Validation failures must short-circuit before any request is built.
	return newTicketService(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("unexpected API call")
		w.WriteHeader(http.StatusTeapot)
	}))
}

func TestCreateRequiresPhone(t *testing.T) {
	svc := unreachableTicketService(t)

	_, err := svc.Create(context.Background(), requesterSession(), TicketCreateForm{
		Descricao: "a impressora do setor parou",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsStatus(err, http.StatusBadRequest))
}

func TestCreateRequiresMinimumDescription(t *testing.T) {
	svc := unreachableTicketService(t)

	_, err := svc.Create(context.Background(), requesterSession(), TicketCreateForm{
		Telefone:  "1234",
		Descricao: "curta",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "10 caracteres")
}

func TestCreateCountsDescriptionInRunes(t *testing.T) {
	svc := newTicketService(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"ticket": map[string]any{"id": "9"}}) //nolint:errcheck
	}))

	// Ten accented runes exceed ten bytes; the limit is measured in runes.
	_, err := svc.Create(context.Background(), requesterSession(), TicketCreateForm{
		Telefone:  "1234",
		Descricao: "çãéíóúâêôà",
	})
	assert.NoError(t, err)
}

func TestCreateFillsDefaultsFromSession(t *testing.T) {
	var payload remote.TicketCreateInput
	svc := newTicketService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"ticket": map[string]any{"id": "9"}}) //nolint:errcheck
	}))

	sess := requesterSession()
	_, err := svc.Create(context.Background(), sess, TicketCreateForm{
		Telefone:  "1234",
		Descricao: "a impressora do setor parou de funcionar",
	})
	require.NoError(t, err)

	assert.Equal(t, sess.User.Nome, payload.NomeSolicitante)
	assert.Equal(t, sess.User.Email, payload.EmailContato)
	assert.Equal(t, sess.User.Equipe, payload.Setor)
	assert.Equal(t, domain.PriorityMedium, payload.Prioridade)
}

func TestRespondRequiresMessage(t *testing.T) {
	svc := unreachableTicketService(t)

	err := svc.Respond(context.Background(), staffSession(), "42", "   ", domain.StatusPending)
	require.Error(t, err)
	assert.True(t, apperrors.IsStatus(err, http.StatusBadRequest))
}

func TestRespondRejectsTerminalStatusChoice(t *testing.T) {
	svc := unreachableTicketService(t)

	err := svc.Respond(context.Background(), staffSession(), "42", "resolvido", domain.StatusDone)
	require.Error(t, err)
	assert.True(t, apperrors.IsStatus(err, http.StatusBadRequest))
}

func TestFinishSendsStatusUpdate(t *testing.T) {
	var path string
	var body map[string]string
	svc := newTicketService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(map[string]any{"ticket": map[string]any{"id": "42", "status": "Concluído"}}) //nolint:errcheck
	}))

	require.NoError(t, svc.Finish(context.Background(), staffSession(), "#42"))
	assert.Equal(t, "/api/tickets/42/status", path)
	assert.Equal(t, string(domain.StatusDone), body["status"])
}

func TestTransferRequiresAssignee(t *testing.T) {
	svc := unreachableTicketService(t)

	err := svc.Transfer(context.Background(), staffSession(), "42", "  ")
	require.Error(t, err)
	assert.True(t, apperrors.IsStatus(err, http.StatusBadRequest))
}

func TestUploadAttachmentRejectsNonImages(t *testing.T) {
	svc := unreachableTicketService(t)

	_, err := svc.UploadAttachment(context.Background(), staffSession(), "42", "doc.pdf", "application/pdf", 100, strings.NewReader("x"))
	require.Error(t, err)
	assert.True(t, apperrors.IsStatus(err, http.StatusBadRequest))
}

func TestGetReturnsViewerActions(t *testing.T) {
	svc := newTicketService(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"ticket": map[string]any{
				"id":     "42",
				"status": "Sem atribuição",
			},
		})
	}))

	_, actions, err := svc.Get(context.Background(), staffSession(), "42")
	require.NoError(t, err)
	assert.True(t, actions.Assume)
	assert.False(t, actions.Respond)
}
