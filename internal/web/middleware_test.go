package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-portal/internal/config"
	"github.com/spec-kit/helpdesk-portal/internal/domain"
	"github.com/spec-kit/helpdesk-portal/internal/observability"
	"github.com/spec-kit/helpdesk-portal/internal/remote"
	"github.com/spec-kit/helpdesk-portal/internal/session"
	apperrors "github.com/spec-kit/helpdesk-portal/pkg/util/errorutil"
)

var testSessionCfg = config.SessionConfig{CookieName: "token", CookieTTLHours: 24}

func okHandler(c *fiber.Ctx) error {
	return c.SendString("ok")
}

func TestCookieGateRedirectsWithoutCookie(t *testing.T) {
	app := fiber.New()
	app.Use(CookieGate(testSessionCfg))
	app.Get("/dashboard", okHandler)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestCookieGatePassesWithCookie(t *testing.T) {
	app := fiber.New()
	app.Use(CookieGate(testSessionCfg))
	app.Get("/dashboard", okHandler)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "whatever"})
	resp, err := app.Test(req)
	require.NoError(t, err)

	// The gate only checks presence; validity is the session loader's job.
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCookieGateAllowsLoginEndpoints(t *testing.T) {
	app := fiber.New()
	app.Use(CookieGate(testSessionCfg))
	app.Get("/", okHandler)
	app.Post("/login", okHandler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func newTestManager(t *testing.T) *session.Manager {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer valid-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Token inválido"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"user": map[string]string{"id": "1", "nome": "Ana", "email": "ana@ti.example.com", "equipe": "T.I"},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	metrics := observability.NewMetrics()
	client := remote.New(config.APIConfig{BaseURL: server.URL, TimeoutSeconds: 5}, zap.NewNop(), metrics)
	manager := session.NewManager(session.ManagerDependencies{
		Remote:  client,
		Store:   nil,
		Config:  testSessionCfg,
		FeedCfg: config.FeedConfig{RefreshIntervalSeconds: 3600, PageSize: 40},
		Logger:  zap.NewNop(),
		Metrics: metrics,
	})
	t.Cleanup(manager.CloseAll)
	return manager
}

func TestSessionLoaderResolvesAndStoresSession(t *testing.T) {
	manager := newTestManager(t)

	app := fiber.New()
	app.Use(SessionLoader(manager, testSessionCfg))
	app.Get("/dashboard", func(c *fiber.Ctx) error {
		sess, ok := session.FromContext(c)
		require.True(t, ok)
		return c.SendString(sess.User.Nome)
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "valid-token"})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSessionLoaderClearsCookieAndRedirectsOnInvalidToken(t *testing.T) {
	manager := newTestManager(t)

	app := fiber.New()
	app.Use(SessionLoader(manager, testSessionCfg))
	app.Get("/dashboard", okHandler)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "forged"})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	// The dead cookie is expired so the next request goes straight to login.
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)
	var cleared bool
	for _, cookie := range cookies {
		if cookie.Name == "token" && cookie.Value == "" {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestRequireStaffRedirectsRequesters(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		session.StoreInContext(c, &session.Session{
			User: &domain.User{ID: "2", Nome: "Maria", Email: "maria@example.com", Equipe: "Financeiro"},
		})
		return c.Next()
	})
	app.Get("/dashboard", RequireStaff(), okHandler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/portal", resp.Header.Get("Location"))
}

func TestRequireStaffAllowsStaff(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		session.StoreInContext(c, &session.Session{
			User: &domain.User{ID: "1", Nome: "Ana", Email: "ana@ti.example.com", Equipe: domain.StaffTeam},
		})
		return c.Next()
	})
	app.Get("/dashboard", RequireStaff(), okHandler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestErrorMiddlewareRendersClientErrorEnvelope(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	app.Get("/boom", func(*fiber.Ctx) error {
		return apperrors.NewValidationError("telefone é obrigatório", map[string]any{"campo": "telefone"})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error struct {
			Code    string         `json:"code"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
	assert.Equal(t, "telefone é obrigatório", body.Error.Message)
	assert.Equal(t, "telefone", body.Error.Details["campo"])
}

func TestErrorMiddlewareRecoversPanics(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	app.Get("/panic", func(*fiber.Ctx) error {
		panic("unexpected")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
