// Package remote wraps every HTTP operation the portal performs against the
// external ticketing API. All state (tickets, users, evaluations) is owned by
// that API; the client only decodes advisory copies.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-portal/internal/config"
	"github.com/spec-kit/helpdesk-portal/internal/observability"
	apperrors "github.com/spec-kit/helpdesk-portal/pkg/util/errorutil"
)

// Client issues authenticated JSON calls against the ticketing API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	metrics *observability.Metrics
}

// New builds a client for the configured base URL.
func New(cfg config.APIConfig, logger *zap.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout()},
		logger:  logger,
		metrics: metrics,
	}
}

// errorEnvelope is the API's non-2xx body shape.
type errorEnvelope struct {
	Error string `json:"error"`
}

// do performs one request. A non-empty token is attached as a bearer header.
// On non-2xx the JSON error body is decoded into a ClientError carrying the
// upstream status; the success body, when out is non-nil, is decoded into out.
func (c *Client) do(ctx context.Context, operation, method, path, token string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.send(req, operation, out)
}

// upload performs one multipart file request.
func (c *Client) upload(ctx context.Context, operation, path, token, fieldName, fileName string, content io.Reader, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, fileName)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := writer.Close(); err != nil {
		return apperrors.NewInternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.send(req, operation, out)
}

func (c *Client) send(req *http.Request, operation string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordRemoteCall(operation, 0)
		c.logger.Warn("api call failed", zap.String("operation", operation), zap.Error(err))
		return apperrors.NewUnavailable("helpdesk API unreachable", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	c.metrics.RecordRemoteCall(operation, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope errorEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			envelope.Error = ""
		}
		c.logger.Debug("api call rejected",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode),
			zap.String("error", envelope.Error))
		return apperrors.FromAPI(resp.StatusCode, envelope.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.NewUnavailable(fmt.Sprintf("malformed %s response", operation), err)
	}
	return nil
}
