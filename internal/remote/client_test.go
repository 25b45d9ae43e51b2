package remote

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
	"github.com/spec-kit/helpdesk-portal/internal/observability"
	apperrors "github.com/spec-kit/helpdesk-portal/pkg/util/errorutil"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(config.APIConfig{BaseURL: server.URL, TimeoutSeconds: 5}, zap.NewNop(), observability.NewMetrics())
}

func TestLoginSuccess(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["email"] == "admin@example.com" && body["password"] == "admin123" {
			json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
				"token": "jwt-token",
				"user": map[string]string{
					"id": "1", "nome": "Admin", "email": "admin@example.com", "equipe": "T.I",
				},
			})
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Credenciais inválidas"}) //nolint:errcheck
	}))

	result, err := client.Login(context.Background(), "admin@example.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", result.Token)
	require.NotNil(t, result.User)
	assert.Equal(t, "Admin", result.User.Nome)
	assert.True(t, result.User.IsStaff())
}

func TestLoginInvalidCredentialsPassesMessageThrough(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Credenciais inválidas"}) //nolint:errcheck
	}))

	_, err := client.Login(context.Background(), "admin@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Contains(t, err.Error(), "Credenciais inválidas")
}

func TestRequestsCarryBearerToken(t *testing.T) {
	var seenAuth string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"tickets": []any{}, "total": 0}) //nolint:errcheck
	}))

	_, _, err := client.Tickets(context.Background(), "tok-123", TicketListOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", seenAuth)
}

func TestTicketsStatusFilterInQuery(t *testing.T) {
	var seenQuery string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"tickets": []map[string]any{{"id": "1", "status": "Pendente"}},
			"total":   1,
		})
	}))

	tickets, total, err := client.Tickets(context.Background(), "tok", TicketListOptions{Status: domain.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, tickets, 1)
	assert.Equal(t, domain.StatusPending, tickets[0].Status)
	assert.Contains(t, seenQuery, "status=Pendente")
}

func TestTicketPathStripsHashPrefix(t *testing.T) {
	var seenPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{"ticket": map[string]any{"id": "42"}}) //nolint:errcheck
	}))

	_, err := client.UpdateTicketStatus(context.Background(), "tok", "#42", domain.StatusDone)
	require.NoError(t, err)
	assert.Equal(t, "/api/tickets/42/status", seenPath)
}

func TestAddResponseOmitsEmptyStatus(t *testing.T) {
	var body map[string]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
	}))

	require.NoError(t, client.AddResponse(context.Background(), "tok", "42", "olá", ""))
	assert.Equal(t, "olá", body["mensagem"])
	_, hasStatus := body["status"]
	assert.False(t, hasStatus)
}

func TestMalformedSuccessBodyIsAnError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("{truncated")) //nolint:errcheck
	}))

	_, err := client.CurrentUser(context.Background(), "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}

func TestUnreachableAPI(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client := New(config.APIConfig{BaseURL: baseURL, TimeoutSeconds: 1}, zap.NewNop(), observability.NewMetrics())
	_, err := client.CurrentUser(context.Background(), "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreachable")
}

func TestUploadAttachmentSendsMultipart(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/uploads/42", r.URL.Path)
		require.Contains(t, r.Header.Get("Content-Type"), "multipart/form-data")

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close() //nolint:errcheck
		assert.Equal(t, "print.png", header.Filename)

		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"file": map[string]any{"id": "f1", "nome_arquivo": "print.png"},
		})
	}))

	attachment, err := client.UploadAttachment(context.Background(), "tok", "#42", "print.png", strings.NewReader("fake-png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "f1", attachment.ID)
}

func TestValidateAttachment(t *testing.T) {
	assert.NoError(t, ValidateAttachment("image/png", 1024))
	assert.NoError(t, ValidateAttachment("image/jpeg", MaxAttachmentBytes))
	assert.Error(t, ValidateAttachment("application/pdf", 1024))
	assert.Error(t, ValidateAttachment("image/png", MaxAttachmentBytes+1))
}
