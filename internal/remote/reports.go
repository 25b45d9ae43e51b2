package remote

import (
	"context"
	"net/http"

	"github.com/spec-kit/helpdesk-portal/internal/domain"
)

// Evaluations fetches the full feedback report. Responsible-party filtering
// happens client-side so the report view can switch filters without a
// round trip.
func (c *Client) Evaluations(ctx context.Context, token string) ([]domain.FeedbackItem, error) {
	var envelope struct {
		Avaliacoes []domain.FeedbackItem `json:"avaliacoes"`
	}
	if err := c.do(ctx, "list_evaluations", http.MethodGet, "/api/relatorios/avaliacoes", token, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Avaliacoes, nil
}

// StaffNames lists staff member names for the feedback filter dropdown.
func (c *Client) StaffNames(ctx context.Context, token string) ([]string, error) {
	var envelope struct {
		Funcionarios []string `json:"funcionarios"`
	}
	if err := c.do(ctx, "list_staff_names", http.MethodGet, "/api/relatorios/funcionarios-ti", token, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Funcionarios, nil
}

// TeamMetrics fetches aggregated satisfaction metrics for the staff team.
func (c *Client) TeamMetrics(ctx context.Context, token string) (*domain.TeamMetrics, error) {
	var metrics domain.TeamMetrics
	if err := c.do(ctx, "team_metrics", http.MethodGet, "/api/relatorios/metricas-equipe-ti", token, nil, &metrics); err != nil {
		return nil, err
	}
	return &metrics, nil
}
