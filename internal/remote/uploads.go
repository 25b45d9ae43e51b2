package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spec-kit/helpdesk-portal/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-portal/pkg/util/errorutil"
)

// MaxAttachmentBytes is the client-side upload ceiling.
const MaxAttachmentBytes = 5 * 1024 * 1024

// ValidateAttachment applies the client-side upload rules before any bytes
// leave the portal: image MIME types only, at most 5MB.
func ValidateAttachment(mimeType string, size int64) error {
	if !strings.HasPrefix(mimeType, "image/") {
		return apperrors.NewValidationError("only image attachments are accepted", map[string]any{
			"tipo_arquivo": mimeType,
		})
	}
	if size > MaxAttachmentBytes {
		return apperrors.NewValidationError("attachment exceeds the 5MB limit", map[string]any{
			"tamanho_arquivo": size,
		})
	}
	return nil
}

// UploadAttachment sends one file to the ticket's upload endpoint and
// returns the stored attachment metadata.
func (c *Client) UploadAttachment(ctx context.Context, token, ticketID, fileName string, content io.Reader) (*domain.Attachment, error) {
	var envelope struct {
		File *domain.Attachment `json:"file"`
	}
	path := "/api/uploads/" + ticketPath(ticketID)
	if err := c.upload(ctx, "upload_attachment", path, token, "file", fileName, content, &envelope); err != nil {
		return nil, err
	}
	return envelope.File, nil
}

// DeleteAttachment removes one attachment from a ticket.
func (c *Client) DeleteAttachment(ctx context.Context, token, ticketID, fileID string) error {
	path := fmt.Sprintf("/api/uploads/%s/%s", ticketPath(ticketID), fileID)
	return c.do(ctx, "delete_attachment", http.MethodDelete, path, token, nil, nil)
}
