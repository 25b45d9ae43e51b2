package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-portal/internal/service"
	apperrors "github.com/spec-kit/helpdesk-portal/pkg/util/errorutil"
)

// UploadsHandler forwards ticket attachments to the API.
type UploadsHandler struct {
	tickets *service.TicketService
}

// NewUploadsHandler constructs the handler.
func NewUploadsHandler(tickets *service.TicketService) *UploadsHandler {
	return &UploadsHandler{tickets: tickets}
}

// Upload handles POST /tickets/:id/attachments. The file is validated before
// any bytes leave: images only, 5MB ceiling.
func (h *UploadsHandler) Upload(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("selecione um arquivo para enviar", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()

	attachment, err := h.tickets.UploadAttachment(
		c.UserContext(), sess,
		c.Params("id"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"file": attachment})
}

// Delete handles DELETE /tickets/:id/attachments/:fileId.
func (h *UploadsHandler) Delete(c *fiber.Ctx) error {
	sess, err := mustSession(c)
	if err != nil {
		return err
	}
	if err := h.tickets.DeleteAttachment(c.UserContext(), sess, c.Params("id"), c.Params("fileId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
